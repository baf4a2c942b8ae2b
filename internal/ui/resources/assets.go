// Package resources serves the dashboard's static assets.
package resources

import (
	"fmt"
	"path"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// StaticPath returns the URL path for a static asset.
func StaticPath(name string) string {
	return "/static/" + name
}

var loaders = map[string]api.Loader{
	".js":  api.LoaderJS,
	".css": api.LoaderCSS,
}

// Minify compresses a .js or .css asset with esbuild. Other files are returned unchanged.
func Minify(name string, src []byte) ([]byte, error) {
	loader, ok := loaders[strings.ToLower(path.Ext(name))]
	if !ok {
		return src, nil
	}

	result := api.Transform(string(src), api.TransformOptions{
		Loader:            loader,
		Sourcefile:        name,
		Target:            api.ES2020,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		LogLevel:          api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		var errMsg string
		for _, err := range result.Errors {
			line, col := 0, 0
			if err.Location != nil {
				line, col = err.Location.Line, err.Location.Column
			}
			errMsg += fmt.Sprintf("%s:%d:%d: %s\n", name, line, col, err.Text)
		}
		return nil, fmt.Errorf("esbuild errors:\n%s", errMsg)
	}
	return result.Code, nil
}
