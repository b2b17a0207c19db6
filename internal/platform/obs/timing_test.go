package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev, flags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prev)
		log.SetFlags(flags)
	})
	return &buf
}

func TestTimeLogsRequestID(t *testing.T) {
	buf := captureLog(t)
	ctx := WithRequestID(context.Background(), "abc")

	var err error
	Time(ctx, "plan.visits")(&err)

	assert.Contains(t, buf.String(), "req_id=abc op=plan.visits dur=")
	assert.NotContains(t, buf.String(), "err=")
}

func TestTimeLogsError(t *testing.T) {
	buf := captureLog(t)

	err := errors.New("boom")
	Time(context.Background(), "visits.sqlite.List")(&err)

	assert.Contains(t, buf.String(), "req_id= op=visits.sqlite.List")
	assert.Contains(t, buf.String(), "err=boom")
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
