package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"dayflow/internal/config"
	"dayflow/internal/model"
	"dayflow/internal/notify"
	"dayflow/internal/repository"
	"dayflow/internal/server"
	"dayflow/internal/service"
)

const (
	shutdownTimeout = 30 * time.Second
	sweepTimeout    = 5 * time.Minute
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		taskRepo     repository.TaskRepository
		categoryRepo repository.CategoryRepository
		progressRepo repository.ProgressRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := repository.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		taskRepo = repository.NewGormTaskRepository(db)
		categoryRepo = repository.NewGormCategoryRepository(db)
		progressRepo = repository.NewGormProgressRepository(db)
	} else {
		memTasks := repository.NewMemoryTaskRepository()
		memCategories := repository.NewMemoryCategoryRepository()
		memProgress := repository.NewMemoryProgressRepository()
		if err := repository.SeedFixtures(ctx, memTasks, memCategories, memProgress); err != nil {
			log.Fatalf("seed fixtures: %v", err)
		}
		taskRepo = memTasks
		categoryRepo = memCategories
		progressRepo = memProgress
	}

	var transport notify.Transport = notify.NewLogTransport(nil)
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramTransport(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		transport = tg
	}
	dispatcher := notify.NewDispatcher(transport)

	latency := service.NoLatency
	if cfg.SimulateLatency {
		latency = service.SimulatedLatency
	}

	taskSvc, err := service.NewTaskService(ctx, taskRepo, dispatcher, latency)
	if err != nil {
		log.Fatalf("task service: %v", err)
	}
	categorySvc, err := service.NewCategoryService(ctx, categoryRepo, latency)
	if err != nil {
		log.Fatalf("category service: %v", err)
	}
	progressSvc, err := service.NewProgressService(ctx, progressRepo, latency)
	if err != nil {
		log.Fatalf("progress service: %v", err)
	}
	reminderSvc := service.NewReminderService(taskSvc, dispatcher)

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleDaily(cfg.ReminderTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if _, err := reminderSvc.CheckAndSendReminders(jobCtx); err != nil {
			log.Printf("reminder sweep: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule reminders: %v", err)
	}
	scheduler.Start()

	// Keep today's progress record current without coupling it to the
	// store: recompute on every task mutation.
	taskSvc.OnMutate(func() {
		hookCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		tasks, err := taskSvc.GetAll(hookCtx)
		if err != nil {
			log.Printf("progress refresh: %v", err)
			return
		}
		date := time.Now().Format(model.DateLayout)
		if _, err := progressSvc.RecomputeForDate(hookCtx, date, tasks); err != nil {
			log.Printf("progress refresh: %v", err)
		}
	})

	srv := server.New(taskSvc, categorySvc, progressSvc, reminderSvc)
	go func() {
		if err := srv.Listen(cfg.HTTPAddr); err != nil {
			log.Printf("http server: %v", err)
		}
	}()
	log.Printf("DayFlow listening on %s (reminders daily at %s)", cfg.HTTPAddr, cfg.ReminderTime)

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"http": func(ctx context.Context) error {
			return srv.Shutdown()
		},
		"scheduler": func(ctx context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
	exitCode := <-wait
	log.Printf("Shutdown complete (code %d).", exitCode)
	os.Exit(exitCode)
}
