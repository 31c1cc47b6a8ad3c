package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/scriptlab/engine/internal/cache"
	"github.com/scriptlab/engine/internal/enginerr"
	"github.com/scriptlab/engine/internal/jsruntime"
	"github.com/scriptlab/engine/internal/logging"
	"github.com/scriptlab/engine/internal/validator"
)

type workItem struct {
	id      string
	text    string
	hasText bool
}

// initialise resolves the main source, validates it, and performs the
// breadth-first dependency-tree walk described in spec.md §4.7. Shape and
// safety errors here are fatal and abort initialisation (spec.md §7
// "Propagation").
func (e *Engine) initialise(ctx context.Context) error {
	log := logging.Get(logging.CategoryPlanner)

	mainText, err := e.resolveMainSource(ctx)
	if err != nil {
		return fmt.Errorf("resolving main source: %w", err)
	}

	if res := validator.Validate(mainText, nil); !res.Valid {
		return enginerr.New(enginerr.Shape, "main script validation failed: %v", res.Errors)
	}

	mainID := uuid.NewString()
	queue := []workItem{{id: mainID, text: mainText, hasText: true}}
	processed := make(map[string]bool)
	var mainIntro *jsruntime.Introspection

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if processed[item.id] {
			continue
		}

		intro, err := e.loadWorkItem(ctx, item)
		if err != nil {
			return err
		}
		processed[item.id] = true
		if item.id == mainID {
			mainIntro = intro
		}
		log.Info("loaded %s (deps=%d)", item.id, len(intro.Deps))

		for _, depID := range intro.Deps {
			if !processed[depID] {
				queue = append(queue, workItem{id: depID})
			}
		}
	}

	e.mainID = mainID
	e.io = mainIntro.IO
	e.deps = mainIntro.Deps
	e.mainSourceText = mainIntro.Source
	return nil
}

func (e *Engine) loadWorkItem(ctx context.Context, item workItem) (*jsruntime.Introspection, error) {
	if item.hasText {
		hash := cache.ContentHash(item.text)
		if entry, ok := e.cache.Get(item.id); ok && entry.ContentHash == hash {
			return entry.Introspection, nil
		}
		intro, err := jsruntime.Introspect(item.text)
		if err != nil {
			return nil, err
		}
		e.cache.Put(item.id, &cache.Entry{
			ID:            item.id,
			ContentHash:   hash,
			Introspection: intro,
			Source:        cache.SourceMain,
		})
		return intro, nil
	}

	if entry, ok := e.cache.Get(item.id); ok {
		return entry.Introspection, nil
	}

	if e.cfg.Registry == nil {
		return nil, enginerr.New(enginerr.Registry, "dependency %q requires a registry, none configured", item.id)
	}
	text, err := e.cfg.Registry.Resolve(ctx, item.id)
	if err != nil {
		return nil, enginerr.Wrap(enginerr.Registry, err, "resolving dependency %q", item.id)
	}
	if res := validator.Validate(text, nil); !res.Valid {
		return nil, enginerr.New(enginerr.Shape, "dependency %q validation failed: %v", item.id, res.Errors)
	}
	intro, err := jsruntime.Introspect(text)
	if err != nil {
		return nil, err
	}
	e.cache.Put(item.id, &cache.Entry{
		ID:            item.id,
		ContentHash:   cache.ContentHash(text),
		Introspection: intro,
		Source:        cache.SourceDependency,
	})
	return intro, nil
}

func (e *Engine) resolveMainSource(ctx context.Context) (string, error) {
	if e.resolver != nil {
		text, err := e.resolver(ctx)
		if err != nil {
			return "", enginerr.Wrap(enginerr.Registry, err, "Failed to resolve script content")
		}
		return text, nil
	}
	return e.literalSource, nil
}
