package workout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/coocood/freecache"
)

const (
	catalogChunksKey   = "exercises:chunks"
	catalogChunkPrefix = "exercises:ids:"
	exercisePrefix     = "exercise:"
	// idsPerChunk keeps every id list entry well below the 1/1024 entry limit of the smallest cache.
	idsPerChunk = 16
)

// cachedExerciseRepository keeps the catalog in a TTL cache. Every exercise is its own entry and the catalog order
// is stored as chunks of ids, so the catalog may grow past the size limit freecache puts on a single entry.
type cachedExerciseRepository struct {
	next          exerciseRepository
	cache         *freecache.Cache
	expireSeconds int
	logger        *slog.Logger
}

func newCachedExerciseRepository(
	next exerciseRepository,
	sizeMegabytes int,
	ttl time.Duration,
	logger *slog.Logger,
) *cachedExerciseRepository {
	const megabyte = 1024 * 1024
	return &cachedExerciseRepository{
		next:          next,
		cache:         freecache.NewCache(sizeMegabytes * megabyte),
		expireSeconds: expireSeconds(ttl),
		logger:        logger,
	}
}

// expireSeconds converts ttl to whole seconds rounded up. freecache treats zero as no expiry.
func expireSeconds(ttl time.Duration) int {
	return max(1, int(math.Ceil(ttl.Seconds())))
}

func (r *cachedExerciseRepository) List(ctx context.Context) ([]Exercise, error) {
	exercises, ok, err := r.cachedList()
	if err != nil {
		return nil, err
	}
	if ok {
		return exercises, nil
	}

	if exercises, err = r.next.List(ctx); err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	if err = r.store(exercises); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "failed to cache catalog",
			slog.Int("exercises", len(exercises)), slog.Any("error", err))
		return nil, err
	}
	return exercises, nil
}

// cachedList assembles the catalog from the cache. It reports false when any entry is missing or corrupt.
func (r *cachedExerciseRepository) cachedList() ([]Exercise, bool, error) {
	b, err := r.get(catalogChunksKey)
	if err != nil || b == nil {
		return nil, false, err
	}
	chunks, err := strconv.Atoi(string(b))
	if err != nil {
		return nil, false, nil //nolint:nilerr // corrupt entry, reload
	}

	var exercises []Exercise
	for i := range chunks {
		if b, err = r.get(catalogChunkPrefix + strconv.Itoa(i)); err != nil || b == nil {
			return nil, false, err
		}
		for _, id := range strings.Split(string(b), "\n") {
			e, found, getErr := r.cachedExercise(id)
			if getErr != nil || !found {
				return nil, false, getErr
			}
			exercises = append(exercises, e)
		}
	}
	return exercises, true, nil
}

func (r *cachedExerciseRepository) cachedExercise(id string) (Exercise, bool, error) {
	b, err := r.get(exercisePrefix + id)
	if err != nil || b == nil {
		return Exercise{}, false, err
	}
	var e Exercise
	if err = json.Unmarshal(b, &e); err != nil {
		return Exercise{}, false, nil //nolint:nilerr // corrupt entry, reload
	}
	return e, true, nil
}

// get returns nil without error when key is not cached.
func (r *cachedExerciseRepository) get(key string) ([]byte, error) {
	b, err := r.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s from cache: %w", key, err)
	}
	return b, nil
}

// store writes the exercises first and the chunk count last, so a reader never sees a count without its chunks.
func (r *cachedExerciseRepository) store(exercises []Exercise) error {
	ids := make([]string, len(exercises))
	for i, e := range exercises {
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal exercise %s: %w", e.ID, err)
		}
		if err = r.set(exercisePrefix+e.ID, b); err != nil {
			return err
		}
		ids[i] = e.ID
	}

	chunks := 0
	for chunk := range slices.Chunk(ids, idsPerChunk) {
		if err := r.set(catalogChunkPrefix+strconv.Itoa(chunks), []byte(strings.Join(chunk, "\n"))); err != nil {
			return err
		}
		chunks++
	}
	return r.set(catalogChunksKey, []byte(strconv.Itoa(chunks)))
}

func (r *cachedExerciseRepository) set(key string, value []byte) error {
	if err := r.cache.Set([]byte(key), value, r.expireSeconds); err != nil {
		return fmt.Errorf("cache %s (%d bytes): %w", key, len(value), err)
	}
	return nil
}

func (r *cachedExerciseRepository) Get(ctx context.Context, id string) (Exercise, error) {
	e, found, err := r.cachedExercise(id)
	if err != nil {
		return Exercise{}, err
	}
	if found {
		return e, nil
	}
	exercises, err := r.List(ctx)
	if err != nil {
		return Exercise{}, err
	}
	idx := slices.IndexFunc(exercises, func(e Exercise) bool { return e.ID == id })
	if idx < 0 {
		return Exercise{}, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	return exercises[idx], nil
}

func (r *cachedExerciseRepository) ByMuscleGroups(ctx context.Context, groups []MuscleGroup) ([]Exercise, error) {
	exercises, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterByMuscleGroups(exercises, groups), nil
}

func (r *cachedExerciseRepository) Search(ctx context.Context, term string) ([]Exercise, error) {
	exercises, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	var matches []Exercise
	for _, e := range exercises {
		if matchesSearch(e, term) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

func matchesSearch(e Exercise, term string) bool {
	if strings.Contains(strings.ToLower(e.Name), term) ||
		strings.Contains(strings.ToLower(e.DescriptionMarkdown), term) {
		return true
	}
	for _, c := range e.Categories {
		if strings.Contains(strings.ToLower(string(c)), term) {
			return true
		}
	}
	return false
}
