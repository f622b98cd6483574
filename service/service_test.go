package service

import (
	"errors"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"
)

type fakeService struct {
	name    string
	deps    []string
	initErr error
	journal *[]string
}

func (f *fakeService) Name() string {
	return f.name
}

func (f *fakeService) Dependencies() []string {
	return f.deps
}

func (f *fakeService) Init() error {
	*f.journal = append(*f.journal, "init:"+f.name)
	return f.initErr
}

func (f *fakeService) Start() error {
	*f.journal = append(*f.journal, "start:"+f.name)
	return nil
}

func (f *fakeService) Stop() error {
	*f.journal = append(*f.journal, "stop:"+f.name)
	return nil
}

func newTestHub() *Hub {
	return NewHub(log.New(io.Discard, "", 0))
}

func TestHubLifecycleOrder(t *testing.T) {
	var journal []string
	h := newTestHub()
	h.Register(&fakeService{name: "stream", deps: []string{"session"}, journal: &journal})
	h.Register(&fakeService{name: "session", journal: &journal})
	h.Register(&fakeService{name: "audio", journal: &journal})

	if err := h.InitAll(); err != nil {
		t.Fatalf("InitAll: %v", err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	h.StopAll()
	h.StopAll()

	want := []string{
		"init:audio", "init:session", "init:stream",
		"start:audio", "start:session", "start:stream",
		"stop:stream", "stop:session", "stop:audio",
	}
	if !reflect.DeepEqual(journal, want) {
		t.Fatalf("journal = %v\nwant      %v", journal, want)
	}
	if got := h.Order(); !reflect.DeepEqual(got, []string{"audio", "session", "stream"}) {
		t.Fatalf("Order() = %v", got)
	}
}

func TestHubInitRollback(t *testing.T) {
	var journal []string
	h := newTestHub()
	h.Register(&fakeService{name: "a", journal: &journal})
	h.Register(&fakeService{name: "b", deps: []string{"a"}, initErr: errors.New("no device"), journal: &journal})

	err := h.InitAll()
	if err == nil || !strings.Contains(err.Error(), "service b init failed") {
		t.Fatalf("InitAll err = %v", err)
	}
	want := []string{"init:a", "init:b", "stop:a"}
	if !reflect.DeepEqual(journal, want) {
		t.Fatalf("journal = %v, want %v", journal, want)
	}
}

func TestHubRejectsBadGraphs(t *testing.T) {
	var journal []string

	dup := newTestHub()
	dup.Register(&fakeService{name: "a", journal: &journal})
	if err := dup.Register(&fakeService{name: "a", journal: &journal}); err == nil {
		t.Error("duplicate registration accepted")
	}

	missing := newTestHub()
	missing.Register(&fakeService{name: "a", deps: []string{"ghost"}, journal: &journal})
	if err := missing.InitAll(); err == nil || !strings.Contains(err.Error(), "unregistered") {
		t.Errorf("missing dependency err = %v", err)
	}

	cycle := newTestHub()
	cycle.Register(&fakeService{name: "a", deps: []string{"b"}, journal: &journal})
	cycle.Register(&fakeService{name: "b", deps: []string{"a"}, journal: &journal})
	if err := cycle.InitAll(); err == nil || !strings.Contains(err.Error(), "circular") {
		t.Errorf("cycle err = %v", err)
	}

	if err := newTestHub().StartAll(); err == nil {
		t.Error("StartAll before InitAll accepted")
	}
}
