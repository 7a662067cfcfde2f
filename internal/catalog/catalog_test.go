package catalog

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := LoadEmbedded(context.Background())
	require.NoError(t, err)

	assert.Len(t, c.Version(), 16)

	p, err := c.Profile("UCSC", "  computer   science ")
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", p.Major)
	assert.Equal(t, "UC Santa Cruz", p.University)
	assert.Equal(t, 3.0, p.MinGPA)
	assert.Equal(t, 60.0, p.MinUnits)
	assert.Equal(t, 90.0, p.MaxUnits)
	assert.NotEmpty(t, p.Requirements)
	assert.NotEmpty(t, p.Areas)
	assert.NotEmpty(t, p.SourceURL)

	majors, err := c.Majors("ucsc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Computer Science", "Biology", "Psychology"}, majors)
}

func TestProfileNotFound(t *testing.T) {
	c, err := LoadEmbedded(context.Background())
	require.NoError(t, err)

	_, err = c.Profile("ucsc", "Astrophysics")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = c.Profile("ucla", "Computer Science")
	assert.ErrorIs(t, err, ErrUniversityNotFound)
}

func TestEquivalencies(t *testing.T) {
	c, err := LoadEmbedded(context.Background())
	require.NoError(t, err)

	table := c.Equivalencies("de anza college")
	eq, ok := table.Lookup(" math  1a")
	require.True(t, ok)
	assert.Equal(t, "MATH 19A", eq.TargetCode)
	assert.Contains(t, eq.Areas, "2")
	assert.NotEmpty(t, table.ArticulationURL)

	unknown := c.Equivalencies("Nowhere College")
	assert.Equal(t, "Nowhere College", unknown.Institution)
	assert.Empty(t, unknown.Courses)
	_, ok = unknown.Lookup("MATH 1A")
	assert.False(t, ok)
}

func TestCampuses(t *testing.T) {
	c, err := LoadEmbedded(context.Background())
	require.NoError(t, err)

	campuses := c.Campuses()
	require.Len(t, campuses, 9)
	for _, campus := range campuses {
		assert.Equal(t, campus.ID == "ucsc", campus.Available, campus.ID)
	}

	ucla, ok := c.Campus("UCLA")
	require.True(t, ok)
	assert.False(t, ucla.Available)

	_, ok = c.Campus("mit")
	assert.False(t, ok)

	assert.Contains(t, c.Colleges(), "De Anza College")
}

const validDirectory = `{"campuses":[{"id":"ucx","name":"UC X"}],"colleges":["Test College"]}`

const validEquivalencies = `{"institutions":[{"name":"Test College","courses":[{"code":"MATH 1","target_code":"MATH 10","units":5,"areas":["2"]}]}]}`

const validUniversity = `{
  "id": "ucx",
  "name": "UC X",
  "profiles": [{
    "major": "Physics",
    "required_courses": [{"name": "Mechanics", "equivalent_codes": ["PHYS 4A"]}],
    "areas": [{"tag": "2", "name": "Math", "required": true}],
    "min_gpa": 2.5,
    "min_units": 60,
    "max_units": 90,
    "source_url": "https://example.edu/physics"
  }]
}`

func testFS(university string) fstest.MapFS {
	return fstest.MapFS{
		"directory.json":          {Data: []byte(validDirectory)},
		"equivalencies.json":      {Data: []byte(validEquivalencies)},
		"universities/ucx.json":   {Data: []byte(university)},
		"universities/README.txt": {Data: []byte("ignored")},
	}
}

func TestLoad_FromFS(t *testing.T) {
	c, err := Load(context.Background(), testFS(validUniversity))
	require.NoError(t, err)

	p, err := c.Profile("ucx", "physics")
	require.NoError(t, err)
	assert.Equal(t, "UC X", p.University)

	ucx, ok := c.Campus("ucx")
	require.True(t, ok)
	assert.True(t, ucx.Available)
}

func TestLoad_VersionTracksContent(t *testing.T) {
	a, err := Load(context.Background(), testFS(validUniversity))
	require.NoError(t, err)
	b, err := Load(context.Background(), testFS(validUniversity))
	require.NoError(t, err)
	assert.Equal(t, a.Version(), b.Version())

	changed := `{"id":"ucx","name":"UC X","profiles":[{"major":"Physics","required_courses":[],"areas":[],"min_gpa":2.7,"min_units":60,"max_units":90,"source_url":"https://example.edu/physics"}]}`
	c, err := Load(context.Background(), testFS(changed))
	require.NoError(t, err)
	assert.NotEqual(t, a.Version(), c.Version())
}

func TestLoad_SchemaViolation(t *testing.T) {
	broken := `{"id":"ucx","name":"UC X","profiles":[{"major":"Physics","min_gpa":7}]}`

	_, err := Load(context.Background(), testFS(broken))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ucx.json", verr.Document)
	assert.NotEmpty(t, verr.Errors)
}

func TestLoad_UnitBoundsInverted(t *testing.T) {
	inverted := `{"id":"ucx","name":"UC X","profiles":[{"major":"Physics","required_courses":[],"areas":[],"min_gpa":2.5,"min_units":90,"max_units":60,"source_url":"https://example.edu/physics"}]}`

	_, err := Load(context.Background(), testFS(inverted))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_units")
}

func TestLoad_MissingUniversities(t *testing.T) {
	fsys := fstest.MapFS{
		"directory.json":     {Data: []byte(validDirectory)},
		"equivalencies.json": {Data: []byte(validEquivalencies)},
	}
	_, err := Load(context.Background(), fsys)
	assert.Error(t, err)
}
