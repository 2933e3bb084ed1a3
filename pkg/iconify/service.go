// Package iconify resolves custom folder icons for a project tree.
//
// A [Service] owns the active configuration, scans the project for folders,
// and answers icon lookups. Configuration can be swapped at runtime with
// [Service.Reload] while lookups are in flight.
package iconify

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/iconify/api/v1beta1/configs"
	"github.com/macropower/iconify/pkg/folder"
	"github.com/macropower/iconify/pkg/log"
	"github.com/macropower/iconify/pkg/rule"
)

// Assignment pairs a folder with the rule that decides its icon.
// Rule is nil for folders no rule matched.
type Assignment struct {
	Rule   *rule.Rule
	Folder folder.Folder
}

// Matched reports whether a rule matched the folder.
func (a Assignment) Matched() bool {
	return a.Rule != nil
}

// Icon returns the icon of the matched rule, or an empty string.
func (a Assignment) Icon() string {
	if a.Rule == nil {
		return ""
	}

	return a.Rule.Icon
}

// Match is a snapshot of the rule chosen for a folder. It does not change
// when the configuration is reloaded.
type Match struct {
	// Rule describes the matched rule.
	Rule string
	Icon string
	// Index is the position of the rule in the rule list, or -1.
	Index   int
	Matched bool
	Enabled bool
}

// Service answers folder icon lookups for a single project.
type Service struct {
	fsys     fs.FS
	tracer   trace.Tracer
	cfg      *configs.Config
	resolver *rule.Resolver
	mu       sync.RWMutex
}

// New creates a [Service] for the project rooted at fsys. A nil cfg uses
// the defaults of [configs.New].
func New(fsys fs.FS, cfg *configs.Config) *Service {
	if cfg == nil {
		cfg = configs.New()
	}

	cfg.EnsureDefaults()

	return &Service{
		fsys:     fsys,
		tracer:   otel.Tracer("iconify"),
		cfg:      cfg,
		resolver: rule.NewResolver(cfg.ContentRoot(), cfg.Rules),
	}
}

// Enabled reports whether custom icons are switched on.
func (s *Service) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg.IconsEnabled()
}

// Root returns the content root of the active configuration.
func (s *Service) Root() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.resolver.Root
}

// Rules returns a copy of the active rule list.
func (s *Service) Rules() rule.RuleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(rule.RuleSet(nil), s.resolver.Rules...)
}

// FindMatch returns the first rule matching the folder with the given
// identity and path. It never matches while icons are disabled.
func (s *Service) FindMatch(id folder.ID, p string) (*rule.Rule, bool) {
	return s.Find(folder.Query{ID: id, Path: p})
}

// Find is like [Service.FindMatch] for a [folder.Query].
func (s *Service) Find(q folder.Query) (*rule.Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.cfg.IconsEnabled() {
		return nil, false
	}

	return s.resolver.Find(q)
}

// Lookup is like [Service.Find], but returns a [Match] taken under a
// single read lock.
func (s *Service) Lookup(q folder.Query) Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := Match{Index: -1, Enabled: s.cfg.IconsEnabled()}
	if !m.Enabled {
		return m
	}

	i := s.resolver.Index(q)
	if i < 0 {
		return m
	}

	r := s.resolver.Rules[i]
	m.Rule = r.String()
	m.Icon = r.Icon
	m.Index = i
	m.Matched = true

	return m
}

// Identify returns the identity of the project folder at p.
func (s *Service) Identify(p string) folder.ID {
	return folder.NewScanner(s.fsys, "").Identify(p)
}

// Resolve scans the project and returns an [Assignment] for every folder
// below the content root, in lexical path order.
func (s *Service) Resolve(ctx context.Context) ([]Assignment, error) {
	ctx, span := s.tracer.Start(ctx, "resolve")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	root := s.resolver.Root
	span.SetAttributes(
		attribute.String("root", root),
		attribute.Int("rules", len(s.resolver.Rules)),
	)

	folders, err := folder.NewScanner(s.fsys, root).Scan()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")

		return nil, fmt.Errorf("resolve icons: %w", err)
	}

	enabled := s.cfg.IconsEnabled()
	out := make([]Assignment, 0, len(folders))
	matched := 0

	for _, f := range folders {
		err := ctx.Err()
		if err != nil {
			return nil, fmt.Errorf("resolve icons: %w", err)
		}

		a := Assignment{Folder: f}
		if enabled {
			if r, ok := s.resolver.Find(f.Query()); ok {
				a.Rule = r
				matched++
			}
		}

		out = append(out, a)
	}

	span.SetAttributes(
		attribute.Int("folders", len(out)),
		attribute.Int("matched", matched),
	)

	log.WithContext(ctx).DebugContext(ctx, "resolved folder icons",
		slog.String("root", root),
		slog.Int("folders", len(out)),
		slog.Int("matched", matched),
		slog.Bool("enabled", enabled),
	)

	return out, nil
}

// Reload replaces the active configuration. Rules handed out before the
// reload are left untouched. A new rule adopts the compiled matcher of a
// previous rule with the same pattern and mode.
func (s *Service) Reload(cfg *configs.Config) {
	cfg.EnsureDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.resolver.Rules
	reused := 0

	for _, r := range cfg.Rules {
		if r != nil && slices.ContainsFunc(prev, r.Inherit) {
			reused++
		}
	}

	s.cfg = cfg
	s.resolver = rule.NewResolver(cfg.ContentRoot(), cfg.Rules)

	slog.Debug("reloaded configuration",
		slog.Int("rules", len(cfg.Rules)),
		slog.Int("reused", reused),
		slog.String("root", s.resolver.Root),
	)
}
