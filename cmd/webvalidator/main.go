// cmd/webvalidator/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/webvalidator/webvalidator/internal/cache"
	"github.com/webvalidator/webvalidator/internal/config"
	"github.com/webvalidator/webvalidator/internal/crawl"
	"github.com/webvalidator/webvalidator/internal/httpclient"
	"github.com/webvalidator/webvalidator/internal/logging"
	"github.com/webvalidator/webvalidator/internal/metrics"
	"github.com/webvalidator/webvalidator/internal/ratelimit"
	"github.com/webvalidator/webvalidator/internal/render"
	"github.com/webvalidator/webvalidator/pkg/model"
)

const persistentCacheDir = ".webvalidator-cache"

var (
	version = "dev"
)

// Global flags
var (
	verbose    bool
	useCache   bool
	configPath string
	format     string
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	origin, err := parseArgs(args)
	if err != nil {
		fmt.Println("Error:", err)
		printUsage()
		os.Exit(1)
	}

	if origin == "" && configPath == "" {
		fmt.Println("Error: either an origin URL or --config is required")
		printUsage()
		os.Exit(1)
	}

	os.Exit(run(origin))
}

func parseArgs(args []string) (string, error) {
	var origin string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-v", "--verbose":
			verbose = true
		case "--cache":
			useCache = true
		case "--config":
			if i+1 >= len(args) {
				return "", fmt.Errorf("--config requires a path")
			}
			configPath = args[i+1]
			i++
		case "--format":
			if i+1 >= len(args) {
				return "", fmt.Errorf("--format requires text or json")
			}
			format = args[i+1]
			i++
		case "help", "--help", "-h":
			printUsage()
			os.Exit(0)
		default:
			if origin != "" {
				return "", fmt.Errorf("unexpected argument %q", args[i])
			}
			origin = args[i]
		}
	}

	return origin, nil
}

func printUsage() {
	fmt.Printf("webvalidator %s - recursive static-site link validator\n\n", version)
	fmt.Println("Usage:")
	fmt.Println("  webvalidator [origin-url] [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <path>   Load site policy from a YAML configuration file")
	fmt.Println("  --cache           Persist the retrieval cache to", persistentCacheDir)
	fmt.Println("  --format text|json  Output format (default text)")
	fmt.Println("  -v, --verbose     Enable verbose logging")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  webvalidator https://example.com/")
	fmt.Println("  webvalidator --config site.yaml --format json")
}

func run(origin string) int {
	log := logging.New()
	if verbose {
		log = logging.NewAtLevel(logging.DebugLevel)
	}

	cfg, err := loadConfig(origin)
	if err != nil {
		fmt.Println("Error loading configuration:", err)
		return 1
	}

	m := metrics.New()

	c, closeCache, err := buildCache()
	if err != nil {
		fmt.Println("Error opening cache:", err)
		return 1
	}
	defer closeCache()

	exec, err := httpclient.NewNetHTTPExecutor(30 * time.Second)
	if err != nil {
		fmt.Println("Error creating HTTP executor:", err)
		return 1
	}

	sem := make(chan struct{}, httpclient.DefaultPermitPoolSize(cfg.ConcurrencyGlobal))
	limiter := ratelimit.New(cfg.RateLimitGlobal, cfg.RateLimitPerSite)
	client := httpclient.New(c, exec, cfg.SiteFor, sem, limiter, m)

	engine := crawl.New(client, cfg, m, log)

	ctx := context.Background()
	var docs []model.DocumentOutput
	hasErrors := false
	for doc := range engine.Run(ctx) {
		docs = append(docs, doc)
		if doc.HasErrors() {
			hasErrors = true
		}
	}

	renderer, err := render.New(render.Format(format))
	if err != nil {
		fmt.Println("Error:", err)
		return 1
	}
	if err := renderer.Render(os.Stdout, docs); err != nil {
		fmt.Println("Error rendering output:", err)
		return 1
	}

	if hasErrors {
		return 1
	}
	return 0
}

func loadConfig(origin string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	recurse := true
	raw := &config.Raw{
		Sites: map[string]*config.RawSite{
			"default": {Roots: []string{origin}, Recurse: &recurse},
		},
	}
	return config.Compile(raw)
}

func buildCache() (cache.Cache[*model.Response], func(), error) {
	if !useCache {
		c := cache.NewMemory[*model.Response]()
		return c, func() { _ = c.Close() }, nil
	}

	c, err := cache.OpenPersistent[*model.Response](persistentCacheDir)
	if err != nil {
		return nil, nil, err
	}
	return c, func() { _ = c.Close() }, nil
}
