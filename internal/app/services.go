package app

import (
	"gorm.io/gorm"

	"github.com/lexibridge/lexibridge-backend/internal/audiopipeline"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
	"github.com/lexibridge/lexibridge-backend/internal/services"
)

type Services struct {
	Auth           services.AuthService
	Role           services.RoleService
	Question       services.QuestionService
	QuestionDetail services.QuestionDetailService
	Seed           services.SeedService

	OnDemandAudio audiopipeline.OnDemandService
	ChangeFeed    *audiopipeline.ChangeFeed
	TriggerWorker *audiopipeline.TriggerWorker
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) Services {
	log.Info("Wiring services...")

	feed := audiopipeline.NewChangeFeed(log, cfg.FeedBuffer)

	roleService := services.NewRoleService(db, log, r.UserRole)
	authService := services.NewAuthService(
		db, log,
		r.User, r.UserToken, roleService,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)

	detailService := services.NewQuestionDetailService(db, log, r.QuestionDetail, feed)

	var audioStore services.AudioObjectStore
	if clients.AudioBucket != nil {
		audioStore = clients.AudioBucket
	}
	questionService := services.NewQuestionService(db, log, r.Question, r.QuestionDetail, detailService, audioStore, feed)

	seedService := services.NewSeedService(log, r.Question, questionService)

	var (
		synth audiopipeline.Synthesizer
		store audiopipeline.AudioStore
	)
	if clients.PipelineReady() {
		synth = clients.Speech
		store = clients.AudioBucket
	}
	onDemand := audiopipeline.NewOnDemandService(log, synth, store)

	var worker *audiopipeline.TriggerWorker
	if clients.PipelineReady() {
		worker = audiopipeline.NewTriggerWorker(log, synth, store, detailService, feed)
	}

	return Services{
		Auth:           authService,
		Role:           roleService,
		Question:       questionService,
		QuestionDetail: detailService,
		Seed:           seedService,
		OnDemandAudio:  onDemand,
		ChangeFeed:     feed,
		TriggerWorker:  worker,
	}
}
