// Package resource holds the per-language index of resources and the measures,
// issues and trees saved on them during an analysis.
package resource

import (
	"sort"
	"strings"
	"sync"

	"github.com/TFMV/surrealmeter/cache"
	"github.com/TFMV/surrealmeter/types"
)

const pathCacheSize = 4096

// Context is the store the visitors and decorators write into.
type Context struct {
	mu sync.RWMutex

	language  string
	runID     string
	project   *types.Resource
	resources map[string]*types.Resource
	order     []string
	children  map[string][]string
	measures  map[string]map[string]*types.Measure
	issues    []types.Issue
	trees     map[string]string
	dups      map[string]map[string]bool

	filesByPath  map[string]string
	filesByLower map[string]string
	paths        *cache.ResourceCache
}

// NewContext creates a context whose root is the project resource.
func NewContext(projectKey, projectName, language, runID string) *Context {
	project := &types.Resource{
		Key:   projectKey,
		Name:  projectName,
		Kind:  types.KindProject,
		RunID: runID,
	}
	return &Context{
		language:     language,
		runID:        runID,
		project:      project,
		resources:    map[string]*types.Resource{projectKey: project},
		order:        []string{projectKey},
		children:     make(map[string][]string),
		measures:     make(map[string]map[string]*types.Measure),
		trees:        make(map[string]string),
		dups:         make(map[string]map[string]bool),
		filesByPath:  make(map[string]string),
		filesByLower: make(map[string]string),
		paths:        cache.NewResourceCache(pathCacheSize),
	}
}

func (c *Context) Language() string { return c.language }
func (c *Context) RunID() string    { return c.runID }

// Project returns the project resource.
func (c *Context) Project() *types.Resource {
	return c.project
}

// IsProject reports whether key is the project.
func (c *Context) IsProject(key string) bool {
	return key == c.project.Key
}

// ChildKey builds the key of a resource that lives under the project.
func (c *Context) ChildKey(id string) string {
	return c.project.Key + ":" + id
}

// Index adds r under r.ParentKey. It returns false when r is already indexed
// or its parent is unknown.
func (c *Context) Index(r types.Resource) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.resources[r.Key]; ok {
		return false
	}
	if _, ok := c.resources[r.ParentKey]; !ok {
		return false
	}
	if r.Language == "" {
		r.Language = c.language
	}
	r.RunID = c.runID
	c.resources[r.Key] = &r
	c.order = append(c.order, r.Key)
	c.children[r.ParentKey] = append(c.children[r.ParentKey], r.Key)
	return true
}

// IndexFile indexes a source file found by the inventory. relPath is relative
// to the base directory and absPath is the path the toolchain reports.
func (c *Context) IndexFile(relPath, absPath string) (*types.Resource, bool) {
	relPath = cache.NormalizePath(relPath)
	r := types.Resource{
		Key:       c.ChildKey(relPath),
		Name:      relPath[strings.LastIndex(relPath, "/")+1:],
		LongName:  relPath,
		Kind:      types.KindFile,
		Path:      cache.NormalizePath(absPath),
		ParentKey: c.project.Key,
	}
	if !c.Index(r) {
		return nil, false
	}

	c.mu.Lock()
	c.filesByPath[r.Path] = r.Key
	c.filesByLower[strings.ToLower(r.Path)] = r.Key
	res := c.resources[r.Key]
	c.mu.Unlock()
	return res, true
}

// FileForPath resolves a path written by the toolchain to an indexed file.
func (c *Context) FileForPath(path string) (*types.Resource, bool) {
	if path == "" {
		return nil, false
	}
	key, ok := c.paths.Resolve(path, c.lookupFile)
	if !ok {
		return nil, false
	}
	return c.Resource(key)
}

func (c *Context) lookupFile(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if key, ok := c.filesByPath[path]; ok {
		return key, true
	}
	key, ok := c.filesByLower[strings.ToLower(path)]
	return key, ok
}

func (c *Context) Resource(key string) (*types.Resource, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.resources[key]
	return r, ok
}

// Parent returns the parent of key, or nil for the project.
func (c *Context) Parent(key string) *types.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.resources[key]
	if !ok || r.ParentKey == "" {
		return nil
	}
	return c.resources[r.ParentKey]
}

// Children returns the direct children of key in index order. An empty kind
// matches every kind.
func (c *Context) Children(key string, kind types.ResourceKind) []*types.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*types.Resource
	for _, k := range c.children[key] {
		r := c.resources[k]
		if kind == "" || r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Resources returns every indexed resource of the given kind in index order.
func (c *Context) Resources(kind types.ResourceKind) []*types.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*types.Resource
	for _, k := range c.order {
		r := c.resources[k]
		if kind == "" || r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Measure returns the measure saved for metricKey on resourceKey.
func (c *Context) Measure(resourceKey, metricKey string) (*types.Measure, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.measures[resourceKey][metricKey]
	return m, ok
}

// SaveMeasure stores m on resourceKey, replacing a previous measure of the
// same metric. Measures on unknown resources are dropped.
func (c *Context) SaveMeasure(resourceKey string, m types.Measure) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.resources[resourceKey]; !ok {
		return false
	}
	set, ok := c.measures[resourceKey]
	if !ok {
		set = make(map[string]*types.Measure)
		c.measures[resourceKey] = set
	}
	m.ResourceKey = resourceKey
	m.RunID = c.runID
	set[m.MetricKey] = &m
	return true
}

// SaveValue is a shortcut for a numeric measure.
func (c *Context) SaveValue(resourceKey, metricKey string, v float64) bool {
	m := types.Measure{MetricKey: metricKey}
	m.SetValue(v)
	return c.SaveMeasure(resourceKey, m)
}

// SaveData is a shortcut for a data measure.
func (c *Context) SaveData(resourceKey, metricKey, data string) bool {
	return c.SaveMeasure(resourceKey, types.Measure{MetricKey: metricKey, Data: data})
}

// Measures returns the measures of a resource sorted by metric key.
func (c *Context) Measures(resourceKey string) []types.Measure {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set := c.measures[resourceKey]
	out := make([]types.Measure, 0, len(set))
	for _, m := range set {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MetricKey < out[j].MetricKey })
	return out
}

// MeasureSet returns the measures of a resource keyed by metric.
func (c *Context) MeasureSet(resourceKey string) map[string]types.Measure {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]types.Measure, len(c.measures[resourceKey]))
	for k, m := range c.measures[resourceKey] {
		out[k] = *m
	}
	return out
}

func (c *Context) AddIssue(is types.Issue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	is.RunID = c.runID
	c.issues = append(c.issues, is)
}

func (c *Context) Issues() []types.Issue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]types.Issue(nil), c.issues...)
}

// SaveTree stores serialized tree data under key.
func (c *Context) SaveTree(key, data string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trees[key] = data
}

// Trees returns the stored trees sorted by key.
func (c *Context) Trees() []types.TreeData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.TreeData, 0, len(c.trees))
	for k, d := range c.trees {
		out = append(out, types.TreeData{Key: k, Language: c.language, Data: d, RunID: c.runID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// AddDuplication records a duplication group touching fileKey.
func (c *Context) AddDuplication(fileKey, group string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.dups[fileKey]
	if !ok {
		set = make(map[string]bool)
		c.dups[fileKey] = set
	}
	set[group] = true
}

// Duplications returns the duplication groups per file key, each sorted.
func (c *Context) Duplications() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]string, len(c.dups))
	for file, set := range c.dups {
		groups := make([]string, 0, len(set))
		for g := range set {
			groups = append(groups, g)
		}
		sort.Strings(groups)
		out[file] = groups
	}
	return out
}

// Snapshot copies the indexed resources and their measures.
func (c *Context) Snapshot() ([]types.Resource, []types.Measure) {
	c.mu.RLock()
	keys := append([]string(nil), c.order...)
	c.mu.RUnlock()

	resources := make([]types.Resource, 0, len(keys))
	var measures []types.Measure
	for _, k := range keys {
		r, _ := c.Resource(k)
		resources = append(resources, *r)
		measures = append(measures, c.Measures(k)...)
	}
	return resources, measures
}
