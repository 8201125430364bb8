package service

import "time"

// Clock 时间源。MRP的需求收集和优先级都依赖“现在”，注入便于测试固定时点。
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock 返回系统时钟
func SystemClock() Clock {
	return systemClock{}
}
