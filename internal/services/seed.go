package services

import (
	"context"
	"fmt"

	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/data/repos"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/dbctx"
	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
)

// SeedService loads the starter catalog into an empty database. Audio fields
// are left empty on purpose: the trigger pipeline fills them in after the
// seed writes land.
type SeedService interface {
	Run(ctx context.Context) error
}

type seedService struct {
	log          *logger.Logger
	questionRepo repos.QuestionRepo
	questions    QuestionService
}

func NewSeedService(log *logger.Logger, questionRepo repos.QuestionRepo, questions QuestionService) SeedService {
	return &seedService{
		log:          log.With("service", "SeedService"),
		questionRepo: questionRepo,
		questions:    questions,
	}
}

func (s *seedService) Run(ctx context.Context) error {
	count, err := s.questionRepo.Count(dbctx.From(ctx))
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	if count > 0 {
		s.log.Info("Catalog already populated, skipping seed", "questions", count)
		return nil
	}

	for _, in := range seedQuestions {
		if _, _, err := s.questions.Create(ctx, in); err != nil {
			return fmt.Errorf("seed %q: %w", in.Title, err)
		}
	}
	s.log.Info("Seeded starter catalog", "questions", len(seedQuestions))
	return nil
}

var seedQuestions = []QuestionCreateInput{
	{
		Title:         "How to Build a House in Australia",
		Category:      types.CategoryHousing,
		DisplayNumber: "0001",
		Introduction:  "In this lesson, you'll learn about the process of building a house in Australia, including permits, regulations, and working with contractors.",
		Dialogs: []types.DialogTurn{
			{
				ID:           "d1",
				OriginalText: "Good morning. I'd like to inquire about building permits for residential construction.",
				Translation:  "早上好。我想咨询住宅建设的建筑许可证。",
			},
			{
				ID:           "d2",
				OriginalText: "You'll need to submit your building plans to the local council for approval first.",
				Translation:  "您需要先向当地议会提交建筑计划以获得批准。",
			},
			{
				ID:           "d3",
				OriginalText: "How long does the approval process usually take?",
				Translation:  "批准流程通常需要多长时间？",
			},
		},
	},
	{
		Title:         "Social Welfare Application Guide",
		Category:      types.CategorySocialWelfare,
		DisplayNumber: "0002",
		Introduction:  "Learn how to request and arrange home cleaning support services through social welfare programs.",
		Dialogs: []types.DialogTurn{
			{
				ID:           "d1",
				OriginalText: "Good morning. I am David Smith. I am coming to do a home visit.",
				Translation:  "早上好。我是大卫·史密斯。我来做家访。",
			},
			{
				ID:           "d2",
				OriginalText: "Thank you for coming. I really need help with cleaning my house.",
				Translation:  "谢谢您的到来。我真的需要帮助清理我的房子。",
			},
			{
				ID:           "d3",
				OriginalText: "That's what we're here for. Let me assess what services you need.",
				Translation:  "这就是我们来这里的目的。让我评估一下您需要什么服务。",
			},
		},
	},
	{
		Title:         "Australian Immigration Policy Overview",
		Category:      types.CategoryImmigration,
		IsExamTip:     true,
		DisplayNumber: "0003",
		Introduction:  "Understand the key aspects of Australian immigration policies, visa types, and application processes.",
	},
	{
		Title:         "Medical Emergency Procedures",
		Category:      types.CategoryMedical,
		DisplayNumber: "0004",
		Introduction:  "Know what to do and what to say when you need urgent medical care.",
	},
	{
		Title:         "Domestic Violence Legal Aid",
		Category:      types.CategoryLegal,
		DisplayNumber: "0005",
		Introduction:  "Find out how to reach free legal aid services and what support is available.",
	},
	{
		Title:         "Housing Lease Contract Considerations",
		Category:      types.CategoryHousing,
		IsExamTip:     true,
		DisplayNumber: "0006",
		Introduction:  "What to check before signing a residential lease.",
	},
}
