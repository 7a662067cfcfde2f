// Package catalog holds the static transfer requirement data: requirement
// profiles per university major, course equivalency tables per community
// college, and the campus/college directory. The data is loaded once at
// startup and is read-only afterwards.
package catalog

import (
	"context"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/stemsi/transfer-backend/internal/model"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
)

//go:embed data
var dataFS embed.FS

var (
	ErrProfileNotFound    = errors.New("requirement profile not found")
	ErrUniversityNotFound = errors.New("university not found")
)

const (
	directoryFile     = "directory.json"
	equivalenciesFile = "equivalencies.json"
	universitiesGlob  = "universities/*.json"
)

// University is a transfer destination with its loaded major profiles.
type University struct {
	ID       string
	Name     string
	profiles map[string]model.RequirementProfile
	majors   []string
}

// Catalog is the in-memory requirement data set. It is safe for concurrent
// reads.
type Catalog struct {
	version       string
	campuses      []campusDoc
	colleges      []string
	universities  map[string]*University
	equivalencies map[string]model.EquivalencyTable
}

type campusDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type directoryDoc struct {
	Campuses []campusDoc `json:"campuses"`
	Colleges []string    `json:"colleges"`
}

type universityDoc struct {
	ID       string                     `json:"id"`
	Name     string                     `json:"name"`
	Profiles []model.RequirementProfile `json:"profiles"`
}

type equivalenciesDoc struct {
	Institutions []struct {
		Name            string `json:"name"`
		ArticulationURL string `json:"articulation_url"`
		Courses         []struct {
			Code       string   `json:"code"`
			TargetCode string   `json:"target_code"`
			Units      float64  `json:"units"`
			Areas      []string `json:"areas"`
		} `json:"courses"`
	} `json:"institutions"`
}

// LoadEmbedded loads the catalog shipped with the binary.
func LoadEmbedded(ctx context.Context) (*Catalog, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, fmt.Errorf("open embedded catalog: %w", err)
	}
	return Load(ctx, sub)
}

// LoadDir loads a catalog from a directory laid out like the embedded one.
// An empty dir selects the embedded catalog.
func LoadDir(ctx context.Context, dir string) (*Catalog, error) {
	if dir == "" {
		return LoadEmbedded(ctx)
	}
	return Load(ctx, os.DirFS(dir))
}

// Load reads, validates and indexes every catalog document in fsys. Files are
// read concurrently; any invalid document fails the whole load.
func Load(ctx context.Context, fsys fs.FS) (*Catalog, error) {
	universityFiles, err := fs.Glob(fsys, universitiesGlob)
	if err != nil {
		return nil, fmt.Errorf("list university files: %w", err)
	}
	if len(universityFiles) == 0 {
		return nil, fmt.Errorf("catalog has no files matching %s", universitiesGlob)
	}
	sort.Strings(universityFiles)

	var (
		directory     directoryDoc
		equivalencies equivalenciesDoc
		universities  = make([]universityDoc, len(universityFiles))
		raws          = make(map[string][]byte, len(universityFiles)+2)
		rawSlots      = make([][]byte, len(universityFiles)+2)
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		raw, err := readDocument(gctx, fsys, directoryFile, schemaDirectory, &directory)
		rawSlots[0] = raw
		return err
	})
	g.Go(func() error {
		raw, err := readDocument(gctx, fsys, equivalenciesFile, schemaEquivalencies, &equivalencies)
		rawSlots[1] = raw
		return err
	})
	for i, file := range universityFiles {
		g.Go(func() error {
			raw, err := readDocument(gctx, fsys, file, schemaUniversity, &universities[i])
			rawSlots[i+2] = raw
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	raws[directoryFile] = rawSlots[0]
	raws[equivalenciesFile] = rawSlots[1]
	for i, file := range universityFiles {
		raws[file] = rawSlots[i+2]
	}

	c := &Catalog{
		version:       fingerprint(raws),
		campuses:      directory.Campuses,
		colleges:      directory.Colleges,
		universities:  make(map[string]*University, len(universities)),
		equivalencies: make(map[string]model.EquivalencyTable, len(equivalencies.Institutions)),
	}

	for _, doc := range universities {
		id := strings.ToLower(doc.ID)
		if _, dup := c.universities[id]; dup {
			return nil, fmt.Errorf("university %q defined twice", doc.ID)
		}
		u := &University{
			ID:       id,
			Name:     doc.Name,
			profiles: make(map[string]model.RequirementProfile, len(doc.Profiles)),
		}
		for _, p := range doc.Profiles {
			if p.MaxUnits < p.MinUnits {
				return nil, fmt.Errorf("%s/%s: max_units %v is below min_units %v", doc.ID, p.Major, p.MaxUnits, p.MinUnits)
			}
			p.University = doc.Name
			u.profiles[majorKey(p.Major)] = p
			u.majors = append(u.majors, p.Major)
		}
		c.universities[id] = u
	}

	for _, inst := range equivalencies.Institutions {
		courses := make(map[string]model.Equivalency, len(inst.Courses))
		for _, course := range inst.Courses {
			courses[course.Code] = model.Equivalency{
				TargetCode: course.TargetCode,
				Units:      course.Units,
				Areas:      course.Areas,
			}
		}
		c.equivalencies[institutionKey(inst.Name)] = model.NewEquivalencyTable(inst.Name, inst.ArticulationURL, courses)
	}

	return c, nil
}

func readDocument(ctx context.Context, fsys fs.FS, name, schema string, dst any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if err := ValidateDocument(schema, path.Base(name), raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return raw, nil
}

func fingerprint(raws map[string][]byte) string {
	names := make([]string, 0, len(raws))
	for name := range raws {
		names = append(names, name)
	}
	sort.Strings(names)

	h, _ := blake2b.New256(nil)
	for _, name := range names {
		h.Write([]byte(name))
		h.Write(raws[name])
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func majorKey(major string) string {
	return strings.ToLower(strings.Join(strings.Fields(major), " "))
}

func institutionKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Version identifies the loaded data set; it changes whenever any file does.
func (c *Catalog) Version() string {
	return c.version
}

// Profile returns the requirement profile of a major at a university.
func (c *Catalog) Profile(university, major string) (model.RequirementProfile, error) {
	u, ok := c.universities[strings.ToLower(university)]
	if !ok {
		return model.RequirementProfile{}, fmt.Errorf("%w: %s", ErrUniversityNotFound, university)
	}
	p, ok := u.profiles[majorKey(major)]
	if !ok {
		return model.RequirementProfile{}, fmt.Errorf("%w: %s at %s", ErrProfileNotFound, major, u.Name)
	}
	return p, nil
}

// Equivalencies returns the articulation table of an institution. Unknown
// institutions get an empty table.
func (c *Catalog) Equivalencies(institution string) model.EquivalencyTable {
	if t, ok := c.equivalencies[institutionKey(institution)]; ok {
		return t
	}
	return model.EquivalencyTable{Institution: institution, Courses: map[string]model.Equivalency{}}
}

// Majors lists the majors of a university in file order.
func (c *Catalog) Majors(university string) ([]string, error) {
	u, ok := c.universities[strings.ToLower(university)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUniversityNotFound, university)
	}
	return append([]string{}, u.majors...), nil
}

// Campuses lists the directory campuses; a campus is available when its
// requirement profiles are loaded.
func (c *Catalog) Campuses() []model.Campus {
	out := make([]model.Campus, 0, len(c.campuses))
	for _, campus := range c.campuses {
		_, loaded := c.universities[strings.ToLower(campus.ID)]
		out = append(out, model.Campus{ID: campus.ID, Name: campus.Name, Available: loaded})
	}
	return out
}

// Campus looks up a directory campus by id.
func (c *Catalog) Campus(id string) (model.Campus, bool) {
	for _, campus := range c.Campuses() {
		if strings.EqualFold(campus.ID, id) {
			return campus, true
		}
	}
	return model.Campus{}, false
}

// Colleges lists the supported community colleges.
func (c *Catalog) Colleges() []string {
	return append([]string{}, c.colleges...)
}
