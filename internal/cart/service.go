package cart

import (
	"hash/fnv"
	"sync"

	"github.com/kadeksinduarta/selat-frontend/internal/storage"
	"github.com/sirupsen/logrus"
)

const lockStripes = 64

// Service hands out per-session stores. Mutations of one session are
// serialised within this process; replicas still race last-writer-wins.
type Service struct {
	storage  storage.Storage
	notifier Notifier
	log      logrus.FieldLogger
	locks    [lockStripes]sync.Mutex
}

func NewService(st storage.Storage, notifier Notifier, log logrus.FieldLogger) *Service {
	return &Service{
		storage:  st,
		notifier: notifier,
		log:      log,
	}
}

func (s *Service) Session(sessionID string) *Store {
	return &Store{
		session:  sessionID,
		storage:  s.storage,
		notifier: s.notifier,
		mu:       &s.locks[stripe(sessionID)],
		log:      s.log.WithField("session", sessionID),
	}
}

func stripe(sessionID string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return h.Sum32() % lockStripes
}
