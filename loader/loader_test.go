package loader_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
	"github.com/xy-planning-network/switchback/config"
	"github.com/xy-planning-network/switchback/loader"
	"github.com/xy-planning-network/switchback/paths"
)

type mailer struct {
	from string
}

type loudMailer struct {
	*mailer
}

type cache struct {
	ds *catalog.DriverSet
}

func (c *cache) UseDrivers(ds *catalog.DriverSet) error {
	c.ds = ds
	return nil
}

type posts struct {
	s catalog.Scope
}

type conn struct {
	dsn string
}

// fixture tracks what the catalog of a test constructed.
type fixture struct {
	cat         *catalog.Catalog
	constructed []string
	handlers    int
}

func newMailer(f *fixture) catalog.Constructor {
	return func(cfg catalog.Config) (any, error) {
		f.constructed = append(f.constructed, "mailer")
		from, _ := cfg["from"].(string)
		return &mailer{from: from}, nil
	}
}

func newFixture() *fixture {
	f := &fixture{cat: catalog.New()}
	cat := f.cat

	cat.Register("Mailer", newMailer(f))
	cat.Register("SB_Email", newMailer(f))
	cat.Override("MY_Email", "SB_Email", func(base any, _ catalog.Config) (any, error) {
		return &loudMailer{mailer: base.(*mailer)}, nil
	})
	cat.Register("MY_Widget", func(catalog.Config) (any, error) { return "widget", nil })
	cat.Register("Queue", func(catalog.Config) (any, error) { return "queue", nil })
	cat.Register("Stripe", func(catalog.Config) (any, error) { return "stripe", nil })
	cat.Register("Pdf", func(catalog.Config) (any, error) { return "pdf", nil })
	cat.Register("SB_Cache", func(catalog.Config) (any, error) { return new(cache), nil })
	cat.RegisterDriver("Cache", "memory", func(catalog.Config) (any, error) { return "memory driver", nil })
	cat.Register("SB_DB", func(cfg catalog.Config) (any, error) {
		f.constructed = append(f.constructed, "db")
		dsn, _ := cfg["dsn"].(string)
		return &conn{dsn: dsn}, nil
	})

	cat.RegisterHandler("blog", func(s catalog.Scope) (catalog.Handler, error) {
		f.handlers++
		return catalog.EntryPoints{
			"index": func(context.Context, ...string) (any, error) { return "index", nil },
			"show": func(ctx context.Context, args ...string) (any, error) {
				s.Output().WriteString("post " + strings.Join(args, ","))
				return strings.Join(args, ","), nil
			},
			"route": func(ctx context.Context, _ ...string) (any, error) {
				segs, _ := switchback.RouteFromContext(ctx)
				return segs, nil
			},
			"boot":    func(context.Context, ...string) (any, error) { return nil, nil },
			"_secret": func(context.Context, ...string) (any, error) { return "secret", nil },
		}, nil
	})
	cat.RegisterHandler("admin/users", func(catalog.Scope) (catalog.Handler, error) {
		return remapper{}, nil
	})

	cat.RegisterModel("posts", func(s catalog.Scope) (any, error) { return &posts{s: s}, nil })
	cat.RegisterModel("blog/comments", func(catalog.Scope) (any, error) { return "comments", nil })

	cat.RegisterHelper("url_helper", catalog.FuncMap{"site": func() string { return "base" }, "home": func() string { return "/" }})
	cat.RegisterHelper("MY_url_helper", catalog.FuncMap{"site": func() string { return "ext" }})
	cat.RegisterHelper("text_helper", catalog.FuncMap{"shout": strings.ToUpper})

	return f
}

type remapper struct{}

func (remapper) EntryPoints() map[string]catalog.EntryPoint { return nil }

func (remapper) Remap(_ context.Context, entry string, args ...string) (any, error) {
	return "remapped " + entry + " " + strings.Join(args, ","), nil
}

func newFS() fstest.MapFS {
	return fstest.MapFS{
		"system/components/Driver.go":  {},
		"system/components/Email.go":   {},
		"system/core/Handler.go":       {},
		"system/core/Model.go":         {},
		"system/helpers/url_helper.go": {},

		"app/components/MY_Email.go":          {},
		"app/components/MY_Widget.go":         {},
		"app/components/Mailer.go":            {},
		"app/components/queue/Queue.go":       {},
		"app/components/payments/Stripe.go":   {},
		"app/components/Reports/Pdf.go":       {},
		"app/components/Cache/Cache.go":       {},
		"app/helpers/MY_url_helper.go":        {},
		"app/helpers/text_helper.go":          {},
		"app/helpers/MY_form_helper.go":       {},
		"app/handlers/blog.go":                {},
		"app/handlers/admin/users.go":         {},
		"app/models/posts.go":                 {},
		"app/models/blog/comments.go":         {},
		"app/models/drafts.go":                {},
		"app/views/home.tmpl":                 {Data: []byte(`<h1>{{ .title }}</h1>`)},
		"app/views/site.tmpl":                 {Data: []byte(`{{ site }} {{ home }}`)},
		"app/views/shout.tmpl":                {Data: []byte(`{{ shout .title }}`)},
		"app/config/mailer.yaml":              {Data: []byte("from: ops@example.com\n")},
		"app/config/database.yaml":            {Data: []byte("active_group: main\nmain:\n  dsn: postgres://localhost/app\n")},
		"app/config/site.yaml":                {Data: []byte("site_name: Switchback\n")},
		"pkg/views/only.tmpl":                 {Data: []byte(`only`)},
		"pkg/components/Mailer.go":            {},
		"third_party/auth/components/Auth.go": {},
	}
}

func newLoader(t *testing.T, fsys fstest.MapFS, f *fixture) *loader.Loader {
	t.Helper()

	r := paths.NewResolver(fsys)
	l, err := loader.New(loader.Params{
		Request:     httptest.NewRequest("GET", "/", nil),
		Set:         paths.NewSet("app/", "system/"),
		Resolver:    r,
		Catalog:     f.cat,
		Config:      config.New(r, switchback.Testing, "app/"),
		SearchRoots: []string{"third_party/"},
	})
	require.Nil(t, err)

	return l
}

func TestNewRequiresCollaborators(t *testing.T) {
	// Act
	l, err := loader.New(loader.Params{})

	// Assert
	require.Nil(t, l)
	require.ErrorIs(t, err, switchback.ErrBadConfig)
}

func TestNewBindsCoreFields(t *testing.T) {
	// Arrange
	l := newLoader(t, newFS(), newFixture())

	// Act
	fields := l.Container().Fields()

	// Assert
	require.Equal(t, []string{"config", "load", "output", "router"}, fields)

	v, ok := l.Get("load")
	require.True(t, ok)
	require.Same(t, l, v)
}

func TestPackagePaths(t *testing.T) {
	// Arrange
	l := newLoader(t, newFS(), newFixture())

	// Act
	l.AddPackagePath("pkg", true)
	l.AddPackagePath("auth", false)

	// Assert
	require.Equal(t, []string{"third_party/auth/", "pkg/", "app/", "system/"}, l.Set().Library())
	require.Equal(t, []string{"third_party/auth/"}, l.Set().Views())

	// Act
	l.RemovePackagePath("")
	l.RemovePackagePath("app")

	// Assert
	require.Equal(t, []string{"pkg/", "app/", "system/"}, l.Set().Library())
	require.Equal(t, []string{"pkg/", "app/"}, l.Set().Views())

	// Act
	l.RemovePackagePath("pkg/")

	// Assert
	require.Equal(t, []string{"app/", "system/"}, l.Set().Library())
}

func TestPackagePathSearchedFirst(t *testing.T) {
	// Arrange
	l := newLoader(t, newFS(), newFixture())
	l.AddPackagePath("pkg", true)

	// Act
	err := l.Component("Mailer", nil, "")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "pkg/components/Mailer.go", l.Registry().Records()[0].Source)
}

func TestConfigAndLanguage(t *testing.T) {
	// Arrange
	l := newLoader(t, newFS(), newFixture())

	// Act
	err := l.Config("site")

	// Assert
	require.Nil(t, err)
	v, _ := l.Get("config")
	require.Equal(t, "Switchback", v.(*config.Store).String("site_name"))

	// Act
	err = l.Config("missing")

	// Assert
	require.ErrorIs(t, err, switchback.ErrNotExist)

	// Act
	err = l.Language("calendar")

	// Assert
	require.Nil(t, err)
}

type languages []string

func (l *languages) Load(file string) error {
	*l = append(*l, file)
	return nil
}

func TestLanguageDelegates(t *testing.T) {
	// Arrange
	fsys := newFS()
	r := paths.NewResolver(fsys)
	lang := new(languages)
	l, err := loader.New(loader.Params{
		Set:      paths.NewSet("app/", "system/"),
		Resolver: r,
		Catalog:  newFixture().cat,
		Config:   config.New(r, switchback.Testing, "app/"),
		Language: lang,
	})
	require.Nil(t, err)

	// Act
	err = l.Language("calendar", "", "email")

	// Assert
	require.Nil(t, err)
	require.Equal(t, languages{"calendar", "email"}, *lang)
}

func TestDatabase(t *testing.T) {
	// Arrange
	f := newFixture()
	l := newLoader(t, newFS(), f)

	// Act
	err := l.Database("")

	// Assert
	require.Nil(t, err)
	v, ok := l.Get("db")
	require.True(t, ok)
	require.Equal(t, "postgres://localhost/app", v.(*conn).dsn)

	// Act
	err = l.Database("")

	// Assert
	require.Nil(t, err)
	require.Equal(t, []string{"db"}, f.constructed)

	// Act
	err = l.Database("replica")

	// Assert
	require.ErrorIs(t, err, switchback.ErrBadConfig)
}

func TestAutoload(t *testing.T) {
	// Arrange
	fsys := newFS()
	fsys["app/config/autoload.yaml"] = &fstest.MapFile{Data: []byte(`
packages: [pkg]
config: [site]
helper: [text]
libraries: [Mailer, database]
handler: [blog/boot]
drivers: cache
model: [posts]
`)}
	f := newFixture()
	l := newLoader(t, fsys, f)

	// Assert
	require.Equal(t, []string{"pkg/", "app/", "system/"}, l.Set().Library())
	v, _ := l.Get("config")
	require.Equal(t, "Switchback", v.(*config.Store).String("site_name"))
	require.Contains(t, v.(*config.Store).Paths(), "pkg/")

	// Act
	err := l.Autoload()

	// Assert
	require.Nil(t, err)
	require.Equal(t, []string{"db", "mailer"}, f.constructed)
	for _, field := range []string{"db", "mailer", "blog", "cache", "posts"} {
		require.True(t, l.Container().Has(field), field)
	}
	require.True(t, l.Registry().HasHelper("text_helper"))
}

func TestAutoloadMalformed(t *testing.T) {
	// Arrange
	fsys := newFS()
	fsys["app/config/autoload.yaml"] = &fstest.MapFile{Data: []byte("packages: {nested: true}\n")}
	r := paths.NewResolver(fsys)

	// Act
	_, err := loader.New(loader.Params{
		Set:      paths.NewSet("app/", "system/"),
		Resolver: r,
		Catalog:  newFixture().cat,
		Config:   config.New(r, switchback.Testing, "app/"),
	})

	// Assert
	require.ErrorIs(t, err, switchback.ErrBadConfig)
}
