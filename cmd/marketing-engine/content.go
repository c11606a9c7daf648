package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"marketing_engine/internal/activity"
	"marketing_engine/internal/domain"
	"marketing_engine/internal/review"
	"marketing_engine/internal/service"
)

// dryRunResponses stand in for the LLM in generate --dry-run, in call order:
// research, one draft, one format per platform.
var dryRunResponses = []string{
	`[{"topic":"Sample Topic","angle":"Demo angle for dry run","target_audience":"developers","relevant_links":[],"stream":"project_marketing","platforms":["twitter","linkedin"]}]`,
	`{"content":"This is a dry-run post. Replace with real LLM output.","cta_url":"https://example.com","hashtags":["dryrun","test"]}`,
	`{"content":"Dry-run formatted post.","hashtags":["dryrun"],"subreddit":null}`,
	`{"content":"Dry-run formatted post.","hashtags":["dryrun"],"subreddit":null}`,
}

func runGenerate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	week := fs.String("week", "", "target week as YYYY-MM-DD (default: next Monday)")
	streams := fs.String("streams", "", "comma separated content streams")
	activityArg := fs.String("activity", "", "activity context: inline text, a file path or a URL")
	dryRun := fs.Bool("dry-run", false, "use canned LLM responses")
	if err := fs.Parse(args); err != nil {
		return err
	}

	loc := a.location()
	weekOf, err := parseWeek(*week, loc, time.Now())
	if err != nil {
		return err
	}

	var streamList []domain.Stream
	for _, s := range strings.Split(*streams, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		stream, ok := domain.ParseStream(s)
		if !ok {
			return fmt.Errorf("unknown stream %q", s)
		}
		streamList = append(streamList, stream)
	}

	activityText, err := activity.NewLoader(a.cfg.Activity, a.logger).Load(ctx, *activityArg)
	if err != nil {
		return fmt.Errorf("load activity: %w", err)
	}

	pipeline, err := a.pipelineService(*dryRun)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, headingStyle.Render("Generating content for week of "+weekOf.Format(dateLayout)+"..."))
	run, err := pipeline.Generate(ctx, domain.GenerateRequest{
		WeekOf:   weekOf,
		Streams:  streamList,
		Activity: activityText,
	})
	if run != nil {
		printRunSummary(a, run)
	}
	return err
}

func printRunSummary(a *app, run *domain.PipelineRun) {
	status := goodStyle.Render(string(run.Status))
	if run.Status == domain.RunStatusFailed {
		status = badStyle.Render(string(run.Status))
	}
	rows := [][]string{
		{"Run", run.ID},
		{"Week", run.WeekOf.Format(dateLayout)},
		{"Status", status},
		{"Stage", string(run.Stage)},
		{"Briefs", fmt.Sprint(run.BriefsCount)},
		{"Drafts", fmt.Sprint(run.DraftsCount)},
		{"Posts", fmt.Sprint(run.PostsCount)},
		{"Duration", run.Duration().Round(100 * time.Millisecond).String()},
	}
	if run.Error != nil {
		rows = append(rows, []string{"Error", *run.Error})
	}
	fmt.Fprintln(a.out, renderTable("Pipeline Run", []string{"Field", "Value"}, rows))
}

func runReview(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	week := fs.String("week", "", "target week as YYYY-MM-DD (default: next Monday)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	weekOf, err := parseWeek(*week, a.location(), time.Now())
	if err != nil {
		return err
	}

	approvals := a.approvalService()
	pending, err := approvals.Pending(ctx, weekOf)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Fprintln(a.out, warnStyle.Render("No pending posts for this week."))
		return nil
	}

	tally, err := review.Run(ctx, approvals, pending)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Review finished: %d approved, %d edited, %d rejected, %d skipped, %d failed\n",
		tally.Approved, tally.Edited, tally.Rejected, tally.Skipped, tally.Failed)
	return nil
}

func postIDArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s needs exactly one post id", fs.Name())
	}
	return fs.Arg(0), nil
}

func runApprove(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("approve", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := postIDArg(fs)
	if err != nil {
		return err
	}

	post, err := a.approvalService().Approve(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, goodStyle.Render("Post approved."))
	printPost(a.out, post, a.location())
	return nil
}

func runEdit(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	content := fs.String("content", "", "new content (default: read a line from stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := postIDArg(fs)
	if err != nil {
		return err
	}

	approvals := a.approvalService()
	text := *content
	if text == "" {
		existing, err := approvals.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, headingStyle.Render("Current content:"))
		fmt.Fprintln(a.out, existing.EffectiveContent())
		fmt.Fprint(a.out, "\nNew content: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read content: %w", err)
		}
		text = strings.TrimRight(line, "\r\n")
	}

	post, err := approvals.Edit(ctx, id, text)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, goodStyle.Render("Post edited."))
	printPost(a.out, post, a.location())
	return nil
}

func runReject(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("reject", flag.ContinueOnError)
	reason := fs.String("reason", "", "rejection reason")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := postIDArg(fs)
	if err != nil {
		return err
	}

	post, err := a.approvalService().Reject(ctx, id, *reason)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, badStyle.Render("Post rejected."))
	printPost(a.out, post, a.location())
	return nil
}

func runReschedule(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("reschedule", flag.ContinueOnError)
	at := fs.String("at", "", "new time as YYYY-MM-DD HH:MM in the schedule timezone")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := postIDArg(fs)
	if err != nil {
		return err
	}

	loc := a.location()
	when, err := time.ParseInLocation("2006-01-02 15:04", *at, loc)
	if err != nil {
		return fmt.Errorf("invalid time %q, use YYYY-MM-DD HH:MM", *at)
	}

	post, err := a.approvalService().Reschedule(ctx, id, when)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, goodStyle.Render("Post rescheduled."))
	printPost(a.out, post, loc)
	return nil
}

func runQueue(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("queue", flag.ContinueOnError)
	week := fs.String("week", "", "target week as YYYY-MM-DD (default: next Monday)")
	statusArg := fs.String("status", "all", "approval status, publish status (e.g. flagged_for_review) or all")
	platformArg := fs.String("platform", "", "only show posts for one platform")
	if err := fs.Parse(args); err != nil {
		return err
	}

	loc := a.location()
	weekOf, err := parseWeek(*week, loc, time.Now())
	if err != nil {
		return err
	}

	filter, ok := domain.StatusFilter(*statusArg)
	if !ok {
		return fmt.Errorf("invalid status %q, use an approval status, a publish status or all", *statusArg)
	}
	if *platformArg != "" {
		p, ok := domain.ParsePlatform(*platformArg)
		if !ok {
			return fmt.Errorf("unknown platform %q", *platformArg)
		}
		filter.Platform = &p
	}

	q, err := a.approvalService().Queue(ctx, weekOf, filter)
	if err != nil {
		return err
	}
	if len(q.Posts) == 0 {
		msg := "No posts found for week of " + q.WeekOf.Format(dateLayout)
		if *statusArg != "all" {
			msg += " with status " + *statusArg
		}
		fmt.Fprintln(a.out, warnStyle.Render(msg+"."))
		return nil
	}

	fmt.Fprintln(a.out, renderTable("Queue for week of "+q.WeekOf.Format(dateLayout), postHeaders, postRows(q.Posts, loc)))
	fmt.Fprintf(a.out, "%d posts, %d pending, %d approved\n", len(q.Posts), q.PendingCount(), q.ApprovedCount())
	fmt.Fprintln(a.out, "By platform: "+formatCounts(q.TotalByPlatform()))
	fmt.Fprintln(a.out, "By stream:   "+formatCounts(q.TotalByStream()))
	return nil
}

func formatCounts[K ~string](counts map[K]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[K(k)])
	}
	return strings.Join(parts, " ")
}

func runFlagged(ctx context.Context, a *app, args []string) error {
	posts, err := a.approvalService().Flagged(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, goodStyle.Render("Nothing is flagged for review."))
		return nil
	}
	fmt.Fprintln(a.out, renderTable("Flagged for review", postHeaders, postRows(posts, a.location())))
	return nil
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	week := fs.String("week", "", "target week as YYYY-MM-DD (default: next Monday)")
	format := fs.String("format", "json", "json or markdown")
	output := fs.String("output", "", "write to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	exportFormat, err := service.ParseExportFormat(*format)
	if err != nil {
		return err
	}
	weekOf, err := parseWeek(*week, a.location(), time.Now())
	if err != nil {
		return err
	}

	result, err := a.exportService().Export(ctx, weekOf, exportFormat)
	if err != nil {
		return err
	}

	if *output == "" {
		fmt.Fprintln(a.out, result)
		return nil
	}
	if err := os.WriteFile(*output, []byte(result), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintln(a.out, goodStyle.Render("Exported to "+*output))
	return nil
}
