package preview

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmitter struct {
	connected bool
	fail      error
	events    []string
	payloads  []map[string]any
}

func (f *fakeEmitter) Emit(event string, args ...any) error {
	if f.fail != nil {
		return f.fail
	}
	f.events = append(f.events, event)
	f.payloads = append(f.payloads, args[0].(map[string]any))
	return nil
}

func (f *fakeEmitter) Connected() bool { return f.connected }

func checker() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 1, color.RGBA{B: 255, A: 255})
	return img
}

func TestWriteFrame(t *testing.T) {
	em := &fakeEmitter{connected: true}
	p := NewPublisher(em, "")

	require.NoError(t, p.WriteFrame(context.Background(), 7, checker()))
	require.Len(t, em.payloads, 1)
	assert.Equal(t, []string{DefaultEvent}, em.events)

	payload := em.payloads[0]
	assert.Equal(t, 7, payload["frame"])
	assert.Equal(t, 2, payload["width"])

	decoded, err := png.Decode(bytes.NewReader(payload["png"].([]byte)))
	require.NoError(t, err)
	r, _, _, _ := decoded.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestWriteFrameDisconnected(t *testing.T) {
	em := &fakeEmitter{}
	p := NewPublisher(em, "render")
	require.NoError(t, p.WriteFrame(context.Background(), 0, checker()))
	require.NoError(t, p.WriteFrame(context.Background(), 1, checker()))
	assert.Empty(t, em.events)
	assert.Equal(t, 2, p.Dropped())

	em.connected = true
	em.fail = errors.New("socket closed")
	err := p.WriteFrame(context.Background(), 2, checker())
	assert.ErrorContains(t, err, "socket closed")
	p.Close()
}

func TestDialRejectsBadURL(t *testing.T) {
	_, err := Dial(context.Background(), Options{URL: "no-scheme"})
	assert.Error(t, err)
	_, err = Dial(context.Background(), Options{URL: "://bad"})
	assert.Error(t, err)
}
