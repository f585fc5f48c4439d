// Package app orchestrates a rename run: discover files, parse them into
// episodes, enrich from the metadata client, generate the new name, and
// apply rename and move decisions in deterministic order.
package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/Nomadcxx/tvrename/internal/config"
	"github.com/Nomadcxx/tvrename/internal/finder"
	"github.com/Nomadcxx/tvrename/internal/logging"
	"github.com/Nomadcxx/tvrename/internal/meta"
	"github.com/Nomadcxx/tvrename/internal/parse"
	"github.com/Nomadcxx/tvrename/internal/renamer"
	"github.com/Nomadcxx/tvrename/internal/transform"
)

var (
	// ErrNoValidFiles means no candidate file survived discovery.
	ErrNoValidFiles = errors.New("no valid files found")
	// ErrBatchAborted means skip_behaviour=exit stopped the batch.
	ErrBatchAborted = errors.New("batch aborted")
	// ErrUserAbort means the user quit from a confirmation prompt.
	ErrUserAbort = errors.New("aborted by user")
)

// Decision is a prompt outcome.
type Decision int

const (
	DecisionNo Decision = iota
	DecisionYes
	DecisionQuit
)

// Prompter supplies rename and move confirmations. The CLI injects a
// stdin prompter interactively, AutoYes in batch mode, and AutoNo for
// dry-run reporting.
type Prompter interface {
	DecideRename(path, newName string) Decision
	DecideMove(path, destDir string) Decision
}

// AutoYes approves everything.
type AutoYes struct{}

func (AutoYes) DecideRename(string, string) Decision { return DecisionYes }
func (AutoYes) DecideMove(string, string) Decision   { return DecisionYes }

// AutoNo declines everything.
type AutoNo struct{}

func (AutoNo) DecideRename(string, string) Decision { return DecisionNo }
func (AutoNo) DecideMove(string, string) Decision   { return DecisionNo }

// Result is one row of the batch outcome.
type Result struct {
	OriginalPath string
	NewName      string
	Destination  string
	SizeBytes    int64
	Renamed      bool
	Moved        bool
	Skipped      bool
	Err          error
}

// Processor runs the find/parse/enrich/rename/move pipeline over a set
// of paths.
type Processor struct {
	cfg      *config.Config
	log      *logging.Logger
	parser   *parse.Parser
	pipeline *transform.Pipeline
	gen      *renamer.Generator
	finder   *finder.Finder
	client   meta.Client
	prompter Prompter
}

// NewProcessor wires a Processor from the config. client may be nil to
// run without metadata enrichment; prompter may be nil and defaults to
// AutoNo.
func NewProcessor(cfg *config.Config, log *logging.Logger, client meta.Client, prompter Prompter) (*Processor, error) {
	if log == nil {
		log = logging.Nop()
	}
	if prompter == nil {
		prompter = AutoNo{}
	}

	pipeline, err := transform.New(cfg.TransformOptions())
	if err != nil {
		return nil, err
	}

	var parserOpts []parse.Option
	if len(cfg.Parse.GrammarOrder) > 0 {
		parserOpts = append(parserOpts, parse.WithGrammarOrder(cfg.Parse.GrammarOrder))
	}
	parser, err := parse.New(pipeline, parserOpts...)
	if err != nil {
		return nil, err
	}

	find, err := finder.New(cfg.Scan.ValidExtensions, cfg.Scan.FilenameBlacklist, cfg.Scan.Recursive)
	if err != nil {
		return nil, err
	}

	return &Processor{
		cfg:      cfg,
		log:      log,
		parser:   parser,
		pipeline: pipeline,
		gen:      renamer.NewGenerator(cfg.GeneratorOptions(), pipeline),
		finder:   find,
		client:   client,
		prompter: prompter,
	}, nil
}

// Run processes every candidate file under the given paths in sorted
// order. The returned results cover every file that was considered,
// including skipped ones. A non-nil error means the batch stopped early;
// results up to that point are still returned.
func (p *Processor) Run(inputPaths []string) ([]Result, error) {
	files := p.finder.FindAll(inputPaths, func(err error) {
		p.log.Warn("scan", "skipping path", logging.F("error", err.Error()))
	})
	if len(files) == 0 {
		return nil, ErrNoValidFiles
	}

	var results []Result
	var episodes []*parse.Episode
	for _, file := range files {
		ep, err := p.parser.Parse(file)
		if err != nil {
			p.log.Warn("parse", "cannot parse filename",
				logging.F("path", file), logging.F("error", err.Error()))
			results = append(results, Result{OriginalPath: file, Skipped: true, Err: err})
			continue
		}
		episodes = append(episodes, ep)
	}

	sort.Slice(episodes, func(i, j int) bool {
		return episodes[i].SortKey() < episodes[j].SortKey()
	})

	for _, ep := range episodes {
		res, err := p.processOne(ep)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (p *Processor) processOne(ep *parse.Episode) (Result, error) {
	res := Result{OriginalPath: ep.FullPath(), SizeBytes: ep.SizeBytes}

	if ep.SeriesName == "" && p.cfg.Behavior.ForceName == "" && p.cfg.Behavior.SeriesID == 0 {
		res.Skipped = true
		res.Err = fmt.Errorf("no series name in %q", ep.OriginalName)
		p.log.Warn("process", "no series name", logging.F("path", res.OriginalPath))
		return res, nil
	}

	if p.client != nil {
		err := meta.Enrich(ep, p.client, p.cfg.Behavior.ForceName, p.cfg.Behavior.SeriesID)
		if err != nil {
			if p.cfg.Behavior.SkipFileOnError {
				res.Skipped = true
				res.Err = err
				return res, p.gate(res.OriginalPath, err)
			}
			p.log.Warn("enrich", "proceeding without metadata",
				logging.F("path", res.OriginalPath), logging.F("error", err.Error()))
		}
	}

	newName := p.gen.Filename(ep)
	res.NewName = newName

	renamed := false
	wouldRename := false
	if !p.cfg.Move.MoveOnly && newName != ep.OriginalName {
		if p.cfg.Behavior.DryRun {
			wouldRename = true
			p.log.Info("rename", "would rename",
				logging.F("from", ep.OriginalName), logging.F("to", newName))
		} else {
			decision := DecisionYes
			if !p.cfg.Behavior.AlwaysRename {
				decision = p.prompter.DecideRename(res.OriginalPath, newName)
			}
			switch decision {
			case DecisionQuit:
				res.Skipped = true
				return res, ErrUserAbort
			case DecisionNo:
				res.Skipped = true
				p.log.Info("rename", "declined", logging.F("path", res.OriginalPath))
				return res, nil
			}

			r := renamer.New(res.OriginalPath)
			if err := r.Rename(newName, p.cfg.Rename.OverwriteOnRename, p.cfg.Move.LeaveSymlink); err != nil {
				res.Skipped = true
				res.Err = err
				return res, p.gate(res.OriginalPath, err)
			}
			renamed = true
			res.Renamed = true
			ep.OriginalName = newName
			p.log.Info("rename", "renamed",
				logging.F("from", res.OriginalPath), logging.F("to", newName))
		}
	} else if newName == ep.OriginalName {
		p.log.Debug("rename", "already named correctly", logging.F("path", res.OriginalPath))
	}

	if !p.cfg.Move.Enable {
		return res, nil
	}
	if !renamed && !wouldRename && !p.cfg.Move.AlwaysMove && !p.cfg.Move.MoveOnly {
		return res, nil
	}

	dest := p.gen.Destination(ep)
	destDir := dest
	var destName string
	if p.cfg.Move.DestinationIsFilepath {
		destDir, destName = filepath.Split(dest)
		destDir = filepath.Clean(destDir)
	}
	res.Destination = destDir

	if p.cfg.Behavior.DryRun {
		p.log.Info("move", "would move",
			logging.F("path", ep.FullPath()), logging.F("to", dest))
		return res, nil
	}

	if !p.cfg.Behavior.Batch {
		switch p.prompter.DecideMove(ep.FullPath(), destDir) {
		case DecisionQuit:
			return res, ErrUserAbort
		case DecisionNo:
			p.log.Info("move", "declined", logging.F("path", ep.FullPath()))
			return res, nil
		}
	}

	r := renamer.New(ep.FullPath())
	if destName != "" && destName != ep.OriginalName {
		if err := r.Rename(destName, p.cfg.Move.OverwriteOnMove, p.cfg.Move.LeaveSymlink); err != nil {
			res.Err = err
			return res, p.gate(res.OriginalPath, err)
		}
		ep.OriginalName = destName
		res.NewName = destName
	}
	if err := r.Move(destDir, p.cfg.Move.OverwriteOnMove, p.cfg.Move.LeaveSymlink); err != nil {
		res.Err = err
		return res, p.gate(res.OriginalPath, err)
	}
	ep.Dir = destDir
	res.Moved = true
	p.log.Info("move", "moved",
		logging.F("path", res.OriginalPath), logging.F("to", destDir))
	return res, nil
}

// gate applies the configured skip behavior to a per-file failure.
func (p *Processor) gate(path string, err error) error {
	p.log.Warn("process", "skipping file",
		logging.F("path", path), logging.F("error", err.Error()))
	if p.cfg.Behavior.SkipBehaviour == "exit" {
		return fmt.Errorf("%w: %v", ErrBatchAborted, err)
	}
	return nil
}
