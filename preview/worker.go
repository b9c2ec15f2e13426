// Package preview 提供实时预览用的后台渲染工作者：最新请求优先，
// 过期结果在送达前被丢弃。工作者与交互线程之间只交换不可变的
// StyleSpec 与渲染结果，所有权随通道传递，无需加锁。
package preview

import (
	"sync"
	"sync/atomic"

	"github.com/ByLCY/textex/render"
	"github.com/ByLCY/textex/texspec"
)

// RenderFunc 执行一次完整的预览渲染。
type RenderFunc func(texspec.StyleSpec) (render.Pair, error)

// Result 携带渲染输出与对应的请求序号。
type Result struct {
	ID   uint64
	Spec texspec.StyleSpec
	Pair render.Pair
	Err  error
}

type request struct {
	id   uint64
	spec texspec.StyleSpec
}

// Worker 是单协程的预览渲染器。请求槽与结果槽各只有一格：
// 新请求顶掉尚未开始的旧请求，新结果顶掉尚未取走的旧结果。
type Worker struct {
	renderFn RenderFunc
	requests chan request
	results  chan Result
	latest   atomic.Uint64

	done      chan struct{}
	closeOnce sync.Once
}

// NewWorker 启动工作者协程。
func NewWorker(fn RenderFunc) *Worker {
	w := &Worker{
		renderFn: fn,
		requests: make(chan request, 1),
		results:  make(chan Result, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w
}

// Request 提交新的预览请求并返回其序号。之前尚未开始的请求被丢弃；
// 正在渲染的请求会继续执行，但其结果会因序号过期而被抛弃。
func (w *Worker) Request(spec texspec.StyleSpec) uint64 {
	id := w.latest.Add(1)
	req := request{id: id, spec: spec}
	for {
		select {
		case w.requests <- req:
			return id
		default:
		}
		// 请求槽已满：丢掉被取代的旧请求后重试
		select {
		case <-w.requests:
		default:
		}
	}
}

// Latest 返回最近一次请求的序号，消费方据此识别过期结果。
func (w *Worker) Latest() uint64 {
	return w.latest.Load()
}

// Results 返回结果通道。通道里最多保留一个（最新的）结果。
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Close 停止工作者。已在渲染中的请求不会被打断，其结果被丢弃。
func (w *Worker) Close() {
	w.closeOnce.Do(func() { close(w.done) })
}

func (w *Worker) loop() {
	for {
		select {
		case <-w.done:
			return
		case req := <-w.requests:
			pair, err := w.renderFn(req.spec)
			if req.id != w.latest.Load() {
				continue // 渲染期间有了更新的请求，结果作废
			}
			w.deliver(Result{ID: req.id, Spec: req.spec, Pair: pair, Err: err})
		}
	}
}

func (w *Worker) deliver(res Result) {
	for {
		select {
		case w.results <- res:
			return
		default:
		}
		// 结果槽已满：旧结果尚未被取走，直接顶掉
		select {
		case <-w.results:
		default:
		}
	}
}
