package queue

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestNextAttempt(t *testing.T) {
	tests := []struct {
		name        string
		headers     amqp.Table
		wantAttempt int
		wantAgain   bool
	}{
		{name: "first delivery", headers: nil, wantAttempt: 1, wantAgain: true},
		{name: "int32 header", headers: amqp.Table{attemptsHeader: int32(2)}, wantAttempt: 3, wantAgain: true},
		{name: "int64 header", headers: amqp.Table{attemptsHeader: int64(3)}, wantAttempt: 4, wantAgain: true},
		{name: "last attempt", headers: amqp.Table{attemptsHeader: int32(MaxAttempts - 1)}, wantAttempt: MaxAttempts, wantAgain: false},
		{name: "unexpected header type", headers: amqp.Table{attemptsHeader: "many"}, wantAttempt: 1, wantAgain: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt, again := nextAttempt(tt.headers, MaxAttempts)
			assert.Equal(t, tt.wantAttempt, attempt)
			assert.Equal(t, tt.wantAgain, again)
		})
	}
}

func TestNextAttempt_BoundsRedeliveries(t *testing.T) {
	var headers amqp.Table
	handled := 0
	for {
		handled++
		attempt, again := nextAttempt(headers, MaxAttempts)
		if !again {
			break
		}
		headers = amqp.Table{attemptsHeader: int32(attempt)}
		if handled > 100 {
			t.Fatal("message retried without bound")
		}
	}
	assert.Equal(t, MaxAttempts, handled)
}
