package firebase

import (
	"crypto/rand"
	"sync"
	"time"
)

const pushChars = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

// PushIDs mints 20-character keys that sort by creation time: 8 characters
// of millisecond timestamp followed by 12 random characters. Keys minted in
// the same millisecond increment the random part so they stay ordered.
type PushIDs struct {
	mu       sync.Mutex
	now      func() time.Time
	lastTime int64
	lastRand [12]byte
}

func NewPushIDs(now func() time.Time) *PushIDs {
	if now == nil {
		now = time.Now
	}
	return &PushIDs{now: now}
}

func (p *PushIDs) Next() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ms := p.now().UnixMilli()
	duplicate := ms == p.lastTime
	p.lastTime = ms

	var id [20]byte
	for i := 7; i >= 0; i-- {
		id[i] = pushChars[ms%64]
		ms /= 64
	}

	if !duplicate {
		var buf [12]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", err
		}
		for i := range buf {
			p.lastRand[i] = buf[i] % 64
		}
	} else {
		i := 11
		for ; i >= 0 && p.lastRand[i] == 63; i-- {
			p.lastRand[i] = 0
		}
		if i >= 0 {
			p.lastRand[i]++
		}
	}
	for i, r := range p.lastRand {
		id[8+i] = pushChars[r]
	}
	return string(id[:]), nil
}
