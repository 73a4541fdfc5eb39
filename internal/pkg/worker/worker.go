package worker

import (
	"time"

	"connectcampus/internal/pkg/push"
	"connectcampus/pkg/logger"
)

// NotifyTask 一条待投递的通知。AccountID 为空表示全量推送。
type NotifyTask struct {
	AccountID string
	Title     string
	Body      string
	Extras    map[string]string
	Retry     int // 重试次数
}

// NotifyPool 异步通知投递池。推送失败走退避重试，HTTP 请求路径不等待推送结果。
type NotifyPool struct {
	TaskQueue  chan NotifyTask
	RetryQueue chan NotifyTask // 重试队列
	WorkerNum  int
	MaxRetry   int // 最大重试次数
}

func NewNotifyPool(workerNum int, bufferSize int) *NotifyPool {
	return &NotifyPool{
		TaskQueue:  make(chan NotifyTask, bufferSize),
		RetryQueue: make(chan NotifyTask, bufferSize/2),
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
	}
}

func (p *NotifyPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	// 启动重试处理协程
	go p.retryWorker()
	logger.Sugar.Infof("Notify pool started with %d workers", p.WorkerNum)
}

func (p *NotifyPool) worker(id int) {
	for task := range p.TaskQueue {
		if err := p.deliver(task); err != nil {
			logger.Sugar.Warnf("[Worker %d] Failed to deliver notification (account: %s, title: %s): %v",
				id, task.AccountID, task.Title, err)

			// 如果未达到最大重试次数，加入重试队列
			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
				default:
					logger.Sugar.Errorf("[Worker %d] Retry queue full, notification dropped: account=%s", id, task.AccountID)
					p.logFailedTask(task, err)
				}
			} else {
				p.logFailedTask(task, err)
			}
		}
	}
}

func (p *NotifyPool) retryWorker() {
	for task := range p.RetryQueue {
		// 延迟重试，避免立即重试
		time.Sleep(time.Duration(task.Retry) * time.Second)

		// 重新加入主队列
		select {
		case p.TaskQueue <- task:
		default:
			logger.Sugar.Errorf("[RetryWorker] Main queue full, notification dropped: account=%s", task.AccountID)
			p.logFailedTask(task, nil)
		}
	}
}

func (p *NotifyPool) deliver(task NotifyTask) error {
	// 推送服务未配置时静默丢弃，开发环境不需要真实推送
	if push.GlobalPushService == nil {
		return nil
	}

	if task.AccountID == "" {
		return push.GlobalPushService.PushToAll(task.Title, task.Body, task.Extras)
	}
	return push.GlobalPushService.PushToAccount(task.AccountID, task.Title, task.Body, task.Extras)
}

func (p *NotifyPool) logFailedTask(task NotifyTask, err error) {
	logger.Sugar.Errorf("[DeadLetter] Notification failed permanently: account=%s, title=%s, err=%v",
		task.AccountID, task.Title, err)
}

// AddTask 任务入队，队列满时丢弃而不是阻塞请求
func (p *NotifyPool) AddTask(task NotifyTask) {
	select {
	case p.TaskQueue <- task:
	default:
		logger.Sugar.Warnf("Notify pool queue full, dropping task: account=%s", task.AccountID)
		p.logFailedTask(task, nil)
	}
}

// GlobalNotifyPool 全局通知池
var GlobalNotifyPool *NotifyPool

func InitNotifyPool() {
	GlobalNotifyPool = NewNotifyPool(4, 1024)
	GlobalNotifyPool.Start()
}

// Notify 便捷入口，池未初始化时直接丢弃
func Notify(accountID, title, body string, extras map[string]string) {
	if GlobalNotifyPool == nil {
		return
	}
	GlobalNotifyPool.AddTask(NotifyTask{
		AccountID: accountID,
		Title:     title,
		Body:      body,
		Extras:    extras,
	})
}
