package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/flanksource/commons/logger"

	"github.com/piwi3910/parasys/internal/importer"
	"github.com/piwi3910/parasys/internal/model"
)

// JobOutcome is the result of one batch job. Err is set when the run failed
// or any format could not be rendered; Paths lists what was written anyway.
// FileName is the base name of the job's files, unique within the batch.
type JobOutcome struct {
	Job      importer.Job
	FileName string
	Result   *Result
	Paths    []string
	Err      error
}

// RunBatch runs each job on top of base and writes its formats into
// outDir, one job at a time. A failing job does not stop the batch. Jobs
// whose file names collide get their 1-based row number appended.
func RunBatch(ctx context.Context, base model.PipelineConfig, jobs []importer.Job, formats []Format, outDir string) []JobOutcome {
	names := batchFileNames(jobs)
	outcomes := make([]JobOutcome, 0, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, JobOutcome{Job: job, FileName: names[i], Err: err})
			continue
		}
		outcomes = append(outcomes, runJob(ctx, base, job, names[i], formats, outDir))
	}
	return outcomes
}

// batchFileNames maps each job to a file base name. Names are compared case
// insensitively so the files stay distinct on any filesystem.
func batchFileNames(jobs []importer.Job) []string {
	names := make([]string, len(jobs))
	taken := map[string]bool{}
	for i, job := range jobs {
		name := SafeName(job.Name)
		for n := i + 1; taken[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d", SafeName(job.Name), n)
		}
		if name != SafeName(job.Name) {
			logger.Warnf("batch: job %q renamed to %s to avoid overwriting an earlier job", job.Name, name)
		}
		taken[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func runJob(ctx context.Context, base model.PipelineConfig, job importer.Job, name string, formats []Format, outDir string) JobOutcome {
	out := JobOutcome{Job: job, FileName: name}
	res, err := Run(ctx, job.Config(base))
	if err != nil {
		out.Err = fmt.Errorf("job %s: %w", job.Name, err)
		return out
	}
	out.Result = res

	arts, renderErr := res.ExportAll(ctx, formats)
	paths, writeErr := WriteArtifacts(outDir, name, arts)
	out.Paths = paths
	switch {
	case writeErr != nil:
		out.Err = fmt.Errorf("job %s: %w", job.Name, writeErr)
	case renderErr != nil:
		out.Err = fmt.Errorf("job %s: %w", job.Name, renderErr)
	}
	logger.Debugf("batch: job %s wrote %d files", job.Name, len(paths))
	return out
}
