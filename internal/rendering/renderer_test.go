package rendering

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

func templText(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func TestRenderComponent_BothFlavours(t *testing.T) {
	r := NewUniversalRenderer(nil)

	out, err := r.RenderComponent(context.Background(), html.P(g.Text("gomponent")))
	require.NoError(t, err)
	assert.Equal(t, "<p>gomponent</p>", string(out))

	out, err = r.RenderComponent(context.Background(), templText("<b>templ</b>"))
	require.NoError(t, err)
	assert.Equal(t, "<b>templ</b>", string(out))

	_, err = r.RenderComponent(context.Background(), 42)
	assert.ErrorContains(t, err, "unsupported component type int")
}

func TestAdapters_Nest(t *testing.T) {
	r := NewUniversalRenderer(nil)

	tree := html.Div(Node(templText("inner")))
	out, err := r.RenderComponent(context.Background(), tree)
	require.NoError(t, err)
	assert.Equal(t, "<div>inner</div>", string(out))

	out, err = r.RenderComponent(context.Background(), Templ(html.Span(g.Text("x"))))
	require.NoError(t, err)
	assert.Equal(t, "<span>x</span>", string(out))
}

func TestRenderPage_WritesHTML(t *testing.T) {
	e := echo.New()
	r := NewUniversalRenderer(nil)
	e.Renderer = r
	e.GET("/page", func(c echo.Context) error {
		return r.RenderPage(c, http.StatusCreated, html.H1(g.Text("hi")))
	})
	e.GET("/render", func(c echo.Context) error {
		return c.Render(http.StatusOK, "", html.H2(g.Text("via echo")))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Equal(t, "<h1>hi</h1>", rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/render", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h2>via echo</h2>", rec.Body.String())
}

func TestLanguageFor(t *testing.T) {
	assert.Equal(t, language.English, LanguageFor(""))
	assert.Equal(t, language.German, LanguageFor("de-DE,de;q=0.9,en;q=0.5"))
	assert.Equal(t, language.English, LanguageFor("ja-JP"))
	assert.Equal(t, language.English, LanguageFor(";;garbage"))
}

func TestFormatPrice(t *testing.T) {
	en := FormatPrice(language.English, 1234500, "USD")
	assert.Contains(t, en, "$")
	assert.Contains(t, en, "1,234,500")

	de := FormatPrice(language.German, 1234500, "EUR")
	assert.Contains(t, de, "€")
	assert.Contains(t, de, "1.234.500")

	unknown := FormatPrice(language.English, 10, "ZZZ-not-iso")
	assert.Contains(t, unknown, "ZZZ-not-iso")
}
