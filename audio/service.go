package audio

import (
	"log"
	"sync/atomic"

	"github.com/Mefin-SR/FlowtrixGame/config"
)

// Service wraps SoundManager as a service
// A machine without an audio backend degrades to silence instead of failing
type Service struct {
	manager  *SoundManager
	logger   *log.Logger
	disabled atomic.Bool
}

// NewService creates the audio service
func NewService(cfg config.AudioConfig, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	s := &Service{
		manager: NewSoundManager(cfg),
		logger:  logger,
	}
	s.disabled.Store(!cfg.Enabled)
	return s
}

// Name implements service.Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init opens the speaker; failure disables the service without an error
func (s *Service) Init() error {
	if s.disabled.Load() {
		return nil
	}
	if err := s.manager.Initialize(); err != nil {
		s.logger.Printf("audio initialization failed: %v (continuing without audio)", err)
		s.disabled.Store(true)
	}
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.manager.Cleanup()
	return nil
}

// Disabled reports whether cues are dropped
func (s *Service) Disabled() bool {
	return s.disabled.Load()
}

// Manager returns the sound manager, nil when disabled
func (s *Service) Manager() *SoundManager {
	if s.disabled.Load() {
		return nil
	}
	return s.manager
}
