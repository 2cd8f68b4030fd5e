package event

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/ratbekn/umay/internal/engine"
	"github.com/ratbekn/umay/internal/logger"
)

// Processor 事件处理器
type Processor interface {
	Name() string
	Process(event engine.Event) error
}

// Dispatcher 引擎事件分发器。实现 engine.Sink，把事件缓冲后
// 交给协程池，逐个处理器串行处理同一事件。
type Dispatcher struct {
	ch         chan engine.Event
	pool       *ants.Pool // 协程池
	processors []Processor
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	taskWg     sync.WaitGroup // 在途处理任务
}

// NewDispatcher 创建事件分发器
func NewDispatcher(poolSize, bufferSize int, processors ...Processor) (*Dispatcher, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		ch:         make(chan engine.Event, bufferSize),
		pool:       pool,
		processors: processors,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Register 追加事件处理器，必须在 Start 之前调用
func (d *Dispatcher) Register(processors ...Processor) {
	d.processors = append(d.processors, processors...)
}

// Publish 实现 engine.Sink 接口
func (d *Dispatcher) Publish(event engine.Event) {
	select {
	case d.ch <- event:
	case <-d.ctx.Done():
	}
}

// Start 启动分发循环
func (d *Dispatcher) Start() {
	logger.Info("Starting event dispatcher with %d processors", len(d.processors))
	d.wg.Add(1)
	go d.loop()
}

// Stop 停止分发器，等待在途事件处理完成
func (d *Dispatcher) Stop() {
	logger.Info("Stopping event dispatcher")
	d.cancel()
	d.wg.Wait()
	d.taskWg.Wait()
	d.pool.Release()
}

// loop 分发循环
func (d *Dispatcher) loop() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			// 排空缓冲中剩余的事件
			for {
				select {
				case event := <-d.ch:
					d.dispatch(event)
				default:
					return
				}
			}
		case event := <-d.ch:
			d.dispatch(event)
		}
	}
}

// dispatch 把事件提交到协程池
func (d *Dispatcher) dispatch(event engine.Event) {
	d.taskWg.Add(1)
	err := d.pool.Submit(func() {
		defer d.taskWg.Done()
		for _, p := range d.processors {
			if err := p.Process(event); err != nil {
				logger.Error("Processor %s failed on %s event for project %d: %v",
					p.Name(), event.Type, event.ProjectID, err)
			}
		}
	})
	if err != nil {
		d.taskWg.Done()
		logger.Error("Failed to submit event to pool: %v", err)
	}
}
