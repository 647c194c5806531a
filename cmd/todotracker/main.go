package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"todo-tracker/internal/bus"
	"todo-tracker/internal/config"
	"todo-tracker/internal/model"
	"todo-tracker/internal/repository"
	"todo-tracker/internal/service"
)

const usage = `usage: todotracker <command> [args]

commands:
  add <text> [category]     add a task (default category "default")
  list [-category] [-sort] [-order]
  done <id>                 mark a task completed
  undone <id>               mark a task pending
  priority <id> [low|high]  set priority, or toggle when omitted
  delete <id>               delete a task
  categories                list categories
  addcat <name>             add a category
  share <id>                print a share link for a task
  view <link-or-token>      render a shared snapshot
  digest                    print the pending-task digest
  watch                     run the periodic digest until interrupted
`

type app struct {
	cfg        config.Config
	events     *bus.Bus
	tasks      *service.TaskService
	categories *service.CategoryService
	query      *service.QueryService
	digest     *service.DigestService
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store := repository.Open(cfg.DatabasePath)
	defer store.Close()

	events := bus.New()

	var taskRepo repository.Tasks
	var catRepo repository.Categories
	switch store.Mode() {
	case repository.ModePersistent:
		taskRepo = repository.NewTaskRepository(store)
		catRepo = repository.NewCategoryRepository(store)
	case repository.ModeUnavailable:
		log.Printf("[warn] persistence unavailable, tasks will not survive exit")
		taskRepo = repository.NewMemoryTaskRepository()
		catRepo = repository.NewMemoryCategoryRepository()
		events.Publish(bus.TopicStorageDegraded, bus.StorageEvent{Mode: store.Mode().String(), Diag: store.Diag()})
	case repository.ModeFailed:
		log.Printf("[warn] storage init failed (%s), tasks will not survive exit", store.Diag())
		taskRepo = repository.NewMemoryTaskRepository()
		catRepo = repository.NewMemoryCategoryRepository()
		events.Publish(bus.TopicStorageDegraded, bus.StorageEvent{Mode: store.Mode().String(), Diag: store.Diag()})
	}

	categorySvc := service.NewCategoryService(catRepo, events)
	if err := categorySvc.LoadMirror(ctx); err != nil {
		log.Printf("[warn] load categories: %v", err)
	}
	taskSvc := service.NewTaskService(taskRepo, events)
	querySvc := service.NewQueryService()
	digestSvc := service.NewDigestService(taskSvc, categorySvc, querySvc)

	a := &app{
		cfg:        cfg,
		events:     events,
		tasks:      taskSvc,
		categories: categorySvc,
		query:      querySvc,
		digest:     digestSvc,
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "add":
		return a.runAdd(ctx, args)
	case "list":
		return a.runList(ctx, args)
	case "done":
		return a.runSetCompleted(ctx, args, true)
	case "undone":
		return a.runSetCompleted(ctx, args, false)
	case "priority":
		return a.runPriority(ctx, args)
	case "delete":
		return a.runDelete(ctx, args)
	case "categories":
		return a.runCategories(ctx)
	case "addcat":
		return a.runAddCategory(ctx, args)
	case "share":
		return a.runShare(ctx, args)
	case "view":
		return a.runView(args)
	case "digest":
		return a.runDigest(ctx)
	case "watch":
		return a.runWatch(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) runAdd(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: add <text> [category]")
	}
	category := "default"
	if len(args) > 1 {
		category = args[1]
	}

	task, err := a.tasks.Add(ctx, args[0], category)
	if err != nil {
		return err
	}
	if task == nil {
		// Blank text: nothing stored, nothing to report.
		return nil
	}
	fmt.Printf("added #%d %s (%s)\n", task.ID, task.Text, task.Category)
	return nil
}

func (a *app) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	category := fs.String("category", service.FilterAll, "category slug filter, or \"all\"")
	sortKey := fs.String("sort", string(service.SortDateAdded), "date-added | priority | alphabetical")
	order := fs.String("order", string(service.OrderAsc), "asc | desc")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tasks, err := a.tasks.List(ctx)
	if err != nil {
		return err
	}

	shown := a.query.Apply(tasks, *category, service.SortKey(*sortKey), service.SortOrder(*order))
	for _, task := range shown {
		fmt.Println(formatTask(task, a.categories))
	}
	return nil
}

func (a *app) runSetCompleted(ctx context.Context, args []string, completed bool) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	return a.tasks.SetCompleted(ctx, id, completed)
}

func (a *app) runPriority(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return a.tasks.TogglePriority(ctx, id)
	}
	priority := model.Priority(strings.ToLower(args[1]))
	if !priority.Valid() {
		return fmt.Errorf("priority must be %q or %q", model.PriorityLow, model.PriorityHigh)
	}
	return a.tasks.SetPriority(ctx, id, priority)
}

func (a *app) runDelete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	return a.tasks.Delete(ctx, id)
}

func (a *app) runCategories(ctx context.Context) error {
	categories, err := a.categories.List(ctx)
	if err != nil {
		return err
	}
	for _, cat := range categories {
		fmt.Printf("%s\t%s\n", cat.Slug, cat.Name)
	}
	return nil
}

func (a *app) runAddCategory(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: addcat <name>")
	}
	category, err := a.categories.Add(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("added category %s (%s)\n", category.Name, category.Slug)
	return nil
}

func (a *app) runShare(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	task, err := a.tasks.Get(ctx, id)
	if err != nil {
		return err
	}
	link, err := service.BuildLink(a.cfg.BaseURL, *task)
	if err != nil {
		return err
	}
	fmt.Println(link)
	return nil
}

func (a *app) runView(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: view <link-or-token>")
	}

	token := args[0]
	if extracted, ok := service.ExtractToken(args[0]); ok {
		token = extracted
	}

	snapshot, err := service.DecodeShare(token)
	if err != nil {
		// Malformed tokens render nothing, not a partial view.
		log.Printf("[warn] %v", err)
		return nil
	}

	state := "pending"
	if snapshot.Completed {
		state = "completed"
	}
	added := time.UnixMilli(snapshot.DateAdded)
	fmt.Printf("#%d %s\n", snapshot.ID, snapshot.Text)
	fmt.Printf("category: %s\n", a.categories.DisplayName(snapshot.Category))
	fmt.Printf("state: %s\n", state)
	fmt.Printf("added: %s\n", added.Format("2006-01-02 15:04"))
	if plain, err := service.PlainLink(a.cfg.BaseURL); err == nil {
		fmt.Printf("back: %s\n", plain)
	}
	return nil
}

func (a *app) runDigest(ctx context.Context) error {
	text, err := a.digest.Render(ctx, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

// runWatch prints the digest on the configured schedule until interrupted,
// logging store change events as they arrive.
func (a *app) runWatch(ctx context.Context) error {
	sub := a.events.Subscribe("")
	defer a.events.Unsubscribe(sub)
	go func() {
		for event := range sub.Ch() {
			log.Printf("[info] event %s", event.Topic)
		}
	}()

	scheduler := service.NewSchedulerService(time.Local)
	job := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		text, err := a.digest.Render(jobCtx, time.Now())
		if err != nil {
			log.Printf("digest: %v", err)
			return
		}
		fmt.Println(text)
	}

	var err error
	if a.cfg.DigestAt != "" {
		_, err = scheduler.ScheduleDaily(a.cfg.DigestAt, job)
	} else {
		_, err = scheduler.ScheduleInterval(a.cfg.DigestInterval, job)
	}
	if err != nil {
		return fmt.Errorf("schedule digest: %w", err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	log.Println("watching, Ctrl-C to stop")
	<-ctx.Done()
	return nil
}

func parseID(args []string) (uint, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("task id required")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("task id must be a number")
	}
	return uint(id), nil
}

func formatTask(task model.Task, categories *service.CategoryService) string {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] #%d %s (%s)", mark, task.ID, task.Text, categories.DisplayName(task.Category))
	if task.Priority == model.PriorityHigh {
		line += " (high)"
	}
	return line
}
