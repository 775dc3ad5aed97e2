package tools

import (
	"context"
	"time"

	"github.com/todoevolve/server/internal/skills"
)

func registerSkillHandlers(e *Executor) {
	e.register("detect_language", func(ctx context.Context, userID string, args Args) Result {
		lang := skills.DetectLanguage(args.String("text"))
		return Result{"status": "success", "language": lang}
	})

	e.register("suggest_priority", func(ctx context.Context, userID string, args Args) Result {
		priority := skills.SuggestPriority(args.String("text"))
		return Result{"status": "success", "priority": priority}
	})

	e.register("schedule_reminder", func(ctx context.Context, userID string, args Args) Result {
		when := skills.ParseReminder(args.String("text"), time.Now())
		var date any
		if when != nil {
			date = when.Format(time.RFC3339)
		}
		return Result{"status": "success", "reminder_date": date}
	})

	e.register("get_deployment_blueprint", func(ctx context.Context, userID string, args Args) Result {
		blueprint := skills.DeploymentBlueprint(args.StringOr("type", "minimal"))
		return Result{"status": "success", "blueprint": blueprint}
	})
}
