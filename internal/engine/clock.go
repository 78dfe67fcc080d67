package engine

import "time"

// Clock 시작 시각 기록과 만료 판단에 쓰는 시계
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock 테스트용 고정 시계
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}
