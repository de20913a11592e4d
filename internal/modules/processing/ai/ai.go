package ai

import (
	appcfg "github.com/eduspace/core/internal/config"
	"github.com/eduspace/core/internal/modules/system/configs"
	"github.com/eduspace/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// configSource yields the live application configuration.
type configSource interface {
	Get() (*appcfg.FullConfig, error)
}

// Service runs the document summarization pipeline.
type Service struct {
	docs    documentStore
	cfgSvc  configSource
	taskSvc *taskqueue.Service
	session *ModelSession
	source  *TextSource
	logger  *zap.Logger
}

func NewService(db *gorm.DB, cfgSvc *configs.Service, taskSvc *taskqueue.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		docs:    &gormDocumentStore{db: db},
		cfgSvc:  cfgSvc,
		taskSvc: taskSvc,
		session: NewModelSession(logger),
		source:  NewTextSource(logger),
		logger:  logger,
	}

	// Provider or candidate changes make the memoized model stale.
	if cfgSvc != nil {
		cfgSvc.OnChange(func(_ *appcfg.FullConfig) {
			s.session.Invalidate()
		})
	}
	return s
}

// Session exposes the model session for status reporting.
func (s *Service) Session() *ModelSession { return s.session }
