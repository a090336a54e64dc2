package hub

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSendAfterCloseReturnsFalse(t *testing.T) {
	c := newClient(nil, nil, "m1", "p1")

	assert.True(t, c.Open())
	assert.True(t, c.Send([]byte("frame")))

	c.close()
	assert.False(t, c.Open())
	assert.False(t, c.Send([]byte("late frame")))
}

func TestSendRacingCloseNeverPanics(t *testing.T) {
	// The send queue fills up during the race; silence the drop warnings.
	previous := logrus.GetLevel()
	logrus.SetLevel(logrus.ErrorLevel)
	defer logrus.SetLevel(previous)

	c := newClient(nil, nil, "m1", "p1")

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 5000; j++ {
				c.Send([]byte("frame"))
			}
		}()
	}
	close(start)
	c.close()
	wg.Wait()

	assert.False(t, c.Send([]byte("frame")))
}
