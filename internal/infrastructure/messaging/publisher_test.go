package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
	drained  bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestPublisher_PrefixesSubjectAndEncodesJSON(t *testing.T) {
	conn := &fakeConn{}
	p := newPublisher(conn, "rental.", zerolog.Nop())

	require.NoError(t, p.Publish(context.Background(), "places.created", map[string]string{"id": "p1"}))

	require.Len(t, conn.subjects, 1)
	assert.Equal(t, "rental.places.created", conn.subjects[0])

	var got map[string]string
	require.NoError(t, json.Unmarshal(conn.payloads[0], &got))
	assert.Equal(t, "p1", got["id"])
}

func TestPublisher_NoPrefix(t *testing.T) {
	conn := &fakeConn{}
	p := newPublisher(conn, "", zerolog.Nop())

	require.NoError(t, p.Publish(context.Background(), "bookings.created", struct{}{}))
	assert.Equal(t, []string{"bookings.created"}, conn.subjects)
}

func TestPublisher_Errors(t *testing.T) {
	conn := &fakeConn{err: errors.New("connection closed")}
	p := newPublisher(conn, "rental", zerolog.Nop())

	assert.ErrorContains(t, p.Publish(context.Background(), "places.deleted", struct{}{}), "connection closed")
	assert.Error(t, p.Publish(context.Background(), "places.deleted", make(chan int)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, "places.deleted", struct{}{}), context.Canceled)
}

func TestPublisher_Close(t *testing.T) {
	conn := &fakeConn{}
	require.NoError(t, newPublisher(conn, "", zerolog.Nop()).Close())
	assert.True(t, conn.drained)
}
