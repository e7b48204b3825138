package app

import (
	"context"
	"errors"
	"io"

	"wake_sync_bot/internal/domain/clock"
	"wake_sync_bot/internal/domain/cycle"

	"github.com/sirupsen/logrus"
)

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fakeRepo struct {
	state   cycle.State
	loadErr error
	saveErr error
	saves   int
}

func (r *fakeRepo) Load(ctx context.Context) (*cycle.State, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	s := r.state
	return &s, nil
}

func (r *fakeRepo) Save(ctx context.Context, s *cycle.State) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.state = *s
	return nil
}

type fakeLink struct {
	beginErr     error
	connectAfter int // Connected() is true once polled more than this many times; <0 never
	polls        int
	begun        bool
	disconnected int
}

func (l *fakeLink) Begin() error {
	l.begun = true
	return l.beginErr
}

func (l *fakeLink) Connected() bool {
	l.polls++
	return l.connectAfter >= 0 && l.polls > l.connectAfter
}

func (l *fakeLink) Disconnect() { l.disconnected++ }

type fakeIndicator struct {
	changes []bool
}

func (i *fakeIndicator) Set(on bool) { i.changes = append(i.changes, on) }

type fakeRTC struct {
	now  clock.Reading
	sets []clock.Reading
}

func (r *fakeRTC) Now() clock.Reading { return r.now }

func (r *fakeRTC) Set(v clock.Reading) {
	r.now = v
	r.sets = append(r.sets, v)
}

type fakeTimeSource struct {
	reading clock.Reading
	err     error
	calls   int
}

func (f *fakeTimeSource) Fetch(ctx context.Context) (clock.Reading, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.reading, nil
}

type apiCall struct {
	method    string
	messageID int32
	text      string
}

type apiReply struct {
	body string
	err  error
}

// fakeTelegram answers calls from a script, one reply per call.
type fakeTelegram struct {
	replies []apiReply
	calls   []apiCall
}

func (f *fakeTelegram) next() ([]byte, error) {
	if len(f.replies) == 0 {
		return nil, errors.New("unexpected call")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return []byte(r.body), r.err
}

func (f *fakeTelegram) SendMessage(chatID int64, text string) ([]byte, error) {
	f.calls = append(f.calls, apiCall{method: "sendMessage", text: text})
	return f.next()
}

func (f *fakeTelegram) EditMessageText(chatID int64, messageID int32, text string) ([]byte, error) {
	f.calls = append(f.calls, apiCall{method: "editMessageText", messageID: messageID, text: text})
	return f.next()
}

type fakePower struct {
	armed      []uint64
	poweredOff int
	err        error
}

func (p *fakePower) ArmWakeTimer(micros uint64) { p.armed = append(p.armed, micros) }

func (p *fakePower) PowerDown(ctx context.Context) error {
	p.poweredOff++
	return p.err
}
