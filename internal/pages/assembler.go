// Package pages assembles the data behind each public page.  Every section
// is read fresh from the content store and merged field by field with the
// embedded defaults, so a page renders even when the store is empty or down.
package pages

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/studio-site/internal/model"
	"github.com/iliyamo/studio-site/internal/repository"
)

// maxParallelFetches bounds the concurrent store reads of one page.
const maxParallelFetches = 4

// Store is the read side of the content repository.
type Store interface {
	List(ctx context.Context, table repository.Table) ([]repository.Row, error)
	Singleton(ctx context.Context, table repository.Table) (repository.Row, error)
}

// Layout is the chrome shared by every page.
type Layout struct {
	Settings   model.SiteSettings
	Navigation []model.NavItem
	Social     []model.SocialLink
}

type HomePage struct {
	Layout
	Content      model.HomeContent
	Capabilities []model.Capability
	StudioImages []model.StudioImage
	Gallery      []model.GalleryImage
}

type ShowsPage struct {
	Layout
	Content model.ShowsContent
	Shows   []model.Show
}

type JoinPage struct {
	Layout
	Content model.JoinContent
	Roles   []model.Role
}

type ContactPage struct {
	Layout
	Content model.ContactContent
}

// Assembler builds page data.  It never returns store errors: a failed
// fetch is logged and the section falls back to its defaults.
type Assembler struct {
	store    Store
	defaults *Defaults
	log      *zap.Logger
}

func NewAssembler(store Store, defaults *Defaults, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{store: store, defaults: defaults, log: log}
}

// Layout fetches the site settings, navigation and social links.
func (a *Assembler) Layout(ctx context.Context) Layout {
	var l Layout
	a.run(ctx, a.layoutTasks(&l)...)
	return l
}

func (a *Assembler) Home(ctx context.Context) HomePage {
	var p HomePage
	d := a.defaults
	a.run(ctx, append(a.layoutTasks(&p.Layout),
		func(ctx context.Context) { p.Content = singleton(ctx, a, repository.TableHomeContent, d.HomeContent) },
		func(ctx context.Context) { p.Capabilities = list(ctx, a, repository.TableCapabilities, d.Capabilities) },
		func(ctx context.Context) { p.StudioImages = list(ctx, a, repository.TableStudioImages, d.StudioImages) },
		func(ctx context.Context) { p.Gallery = list(ctx, a, repository.TableGalleryImages, d.GalleryImages) },
	)...)
	return p
}

func (a *Assembler) Shows(ctx context.Context) ShowsPage {
	var p ShowsPage
	d := a.defaults
	a.run(ctx, append(a.layoutTasks(&p.Layout),
		func(ctx context.Context) { p.Content = singleton(ctx, a, repository.TableShowsContent, d.ShowsContent) },
		func(ctx context.Context) { p.Shows = list(ctx, a, repository.TableShows, d.Shows) },
	)...)
	return p
}

func (a *Assembler) Join(ctx context.Context) JoinPage {
	var p JoinPage
	d := a.defaults
	a.run(ctx, append(a.layoutTasks(&p.Layout),
		func(ctx context.Context) { p.Content = singleton(ctx, a, repository.TableJoinContent, d.JoinContent) },
		func(ctx context.Context) { p.Roles = list(ctx, a, repository.TableRoles, d.Roles) },
	)...)
	return p
}

func (a *Assembler) Contact(ctx context.Context) ContactPage {
	var p ContactPage
	d := a.defaults
	a.run(ctx, append(a.layoutTasks(&p.Layout),
		func(ctx context.Context) { p.Content = singleton(ctx, a, repository.TableContactContent, d.ContactContent) },
	)...)
	return p
}

type task func(ctx context.Context)

func (a *Assembler) layoutTasks(l *Layout) []task {
	d := a.defaults
	return []task{
		func(ctx context.Context) { l.Settings = singleton(ctx, a, repository.TableSiteSettings, d.SiteSettings) },
		func(ctx context.Context) { l.Navigation = list(ctx, a, repository.TableNavigation, d.Navigation) },
		func(ctx context.Context) { l.Social = list(ctx, a, repository.TableSocialLinks, d.SocialLinks) },
	}
}

// run executes the tasks in a bounded group.  Each task writes a distinct
// field, so no further synchronization is needed.
func (a *Assembler) run(ctx context.Context, tasks ...task) {
	var g errgroup.Group
	g.SetLimit(maxParallelFetches)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			t(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

func singleton[T any](ctx context.Context, a *Assembler, table repository.Table, def T) T {
	row, err := a.store.Singleton(ctx, table)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			a.log.Warn("content fetch failed, using defaults", zap.String("table", string(table)), zap.Error(err))
		}
		return def
	}
	var v T
	if err := model.Decode(row, &v); err != nil {
		a.log.Warn("content decode failed, using defaults", zap.String("table", string(table)), zap.Error(err))
		return def
	}
	return mergeFields(v, def)
}

func list[T any](ctx context.Context, a *Assembler, table repository.Table, def []T) []T {
	rows, err := a.store.List(ctx, table)
	if err != nil {
		a.log.Warn("content fetch failed, using defaults", zap.String("table", string(table)), zap.Error(err))
		return def
	}
	if len(rows) == 0 {
		return def
	}
	maps := make([]map[string]any, len(rows))
	for i, r := range rows {
		maps[i] = r
	}
	items, err := model.DecodeAll[T](maps)
	if err != nil {
		a.log.Warn("content decode failed, using defaults", zap.String("table", string(table)), zap.Error(err))
		return def
	}
	return items
}
