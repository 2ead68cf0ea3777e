// Command warren-enginectl is a reference Driver (§6): it schedules
// exactly one engine operation per invocation, drains that operation's
// events to stdout via structured logging, reports its result, and
// persists the registry before exiting. It never auto-persists on its
// own initiative outside that exit path — store() is a driver
// responsibility, not the engine's.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nimbusctl/stormengine/internal/config"
	"github.com/nimbusctl/stormengine/internal/engine"
	"github.com/nimbusctl/stormengine/internal/eventqueue"
	_ "github.com/nimbusctl/stormengine/internal/provider/containerd"
	_ "github.com/nimbusctl/stormengine/internal/provider/echo"
	_ "github.com/nimbusctl/stormengine/internal/provider/remote"
	"github.com/nimbusctl/stormengine/internal/resource"
	"github.com/nimbusctl/stormengine/pkg/image"
	"github.com/nimbusctl/stormengine/pkg/log"
	"github.com/nimbusctl/stormengine/pkg/metrics"
)

var cfg config.Config
var metricsRecorder *metrics.Recorder
var catalogStore *image.Store

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "warren-enginectl",
	Short: "Drive a single storm engine operation",
	Long: `warren-enginectl schedules exactly one engine operation per
invocation against a persisted platform registry, drains the resulting
event stream to stdout, reports the operation's result, and stores the
registry before exiting.`,
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to a warrenengine.yaml config file")
	rootCmd.PersistentFlags().String("registry", "", "Override the config file's registry path")
	rootCmd.PersistentFlags().String("log-level", "", "Override the config file's log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs as JSON")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Address to serve /metrics, /health, /ready, /live on (empty disables)")
	rootCmd.PersistentFlags().String("catalog-dir", "", "Override the config file's image catalog directory (empty disables)")

	cobra.OnInitialize(initialize)

	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(dismissCmd)
	rootCmd.AddCommand(offerCmd)
	rootCmd.AddCommand(retireCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(catalogCmd)
}

func initialize() {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	if v, _ := rootCmd.PersistentFlags().GetString("registry"); v != "" {
		cfg.RegistryPath = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("log-json"); v {
		cfg.LogJSON = true
	}
	if v, _ := rootCmd.PersistentFlags().GetString("catalog-dir"); v != "" {
		cfg.CatalogDir = v
	}

	log.Init(log.Config{Level: log.Level(cfg.LogLevel), JSONOutput: cfg.LogJSON})

	if addr, _ := rootCmd.PersistentFlags().GetString("metrics-addr"); addr != "" {
		startMetricsServer(addr)
	}
	if cfg.CatalogDir != "" {
		store, err := image.OpenStore(cfg.CatalogDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		catalogStore = store
	}
}

// startMetricsServer serves /metrics alongside the teacher's
// /health, /ready, /live convention, in a background goroutine that
// outlives the single scheduled operation this process drives.
func startMetricsServer(addr string) {
	metricsRecorder = metrics.NewRecorder()
	metrics.RegisterComponent("registry", true, "")

	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsRecorder.Handler())
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())
	mux.Handle("/live", metrics.LivenessHandler())

	logger := log.WithComponent("metrics")
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error().Err(err).Msg("metrics server exited")
		}
	}()
}

func openEngine() (*engine.Engine, error) {
	stateResource, err := resource.New(cfg.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("registry path %q: %w", cfg.RegistryPath, err)
	}
	engineCfg := engine.Config{StateResource: stateResource, PoolSize: cfg.PoolSize}
	// A nil *metrics.Recorder assigned directly would produce a non-nil
	// interface value, defeating engine.New's no-op default — only set
	// Metrics once a recorder actually exists.
	if metricsRecorder != nil {
		engineCfg.Metrics = metricsRecorder
	}
	if catalogStore != nil {
		engineCfg.Catalog = catalogStore
	}
	e, err := engine.New(engineCfg)
	if err != nil {
		return nil, err
	}
	if metricsRecorder != nil {
		metrics.RegisterComponent("pool", true, "")
	}
	return e, nil
}

// closeCatalogStore closes the catalog database, if one was opened for
// this invocation. Safe to call even when catalog bookkeeping is
// disabled.
func closeCatalogStore() {
	if catalogStore == nil {
		return
	}
	if err := catalogStore.Close(); err != nil {
		log.WithComponent("enginectl").Error().Err(err).Msg("closing image catalog")
	}
}

// drain logs every event belonging to handle as it arrives and returns
// once the task's finished event has been observed and its result
// fetched. Events for other tasks never appear here: a CLI invocation
// schedules exactly one.
func drain(e *engine.Engine, handle *engine.TaskHandle) (any, error) {
	logger := log.WithComponent("enginectl")
	for {
		ev, ok := e.Queue().Next()
		if !ok {
			break
		}
		switch ev.Kind {
		case eventqueue.KindStarted:
			logger.Debug().Msg("started")
		case eventqueue.KindMessage:
			logger.Info().Msg(ev.Payload.(string))
		case eventqueue.KindProgress:
			if ev.Payload == nil {
				logger.Info().Msg("progress: indeterminate")
			} else {
				logger.Info().Float64("progress", ev.Payload.(float64)).Msg("progress")
			}
		case eventqueue.KindPlatformEntry:
			entry := ev.Payload.(engine.PlatformEntry)
			fmt.Printf("%-24s %-10s available=%v\n", entry.Name, entry.Provider, entry.Available)
		case eventqueue.KindFinished:
			return handle.Result(0)
		}
	}
	return handle.Result(0)
}

// runDriven opens the engine, schedules sched against it, drains and
// reports the task, then stores the registry regardless of the task's
// outcome — a failed operation still leaves any prior registry
// mutation persisted.
func runDriven(sched func(e *engine.Engine) *engine.TaskHandle) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer e.Close()
	defer closeCatalogStore()

	handle := sched(e)
	result, opErr := drain(e, handle)

	if storeErr := e.Store(); storeErr != nil {
		if opErr != nil {
			return fmt.Errorf("operation failed (%v); store also failed: %w", opErr, storeErr)
		}
		return fmt.Errorf("store: %w", storeErr)
	}
	if opErr != nil {
		return opErr
	}
	if result != nil {
		fmt.Printf("%v\n", result)
	}
	return nil
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List registered platforms",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDriven(func(e *engine.Engine) *engine.TaskHandle {
			return e.Platforms()
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register NAME",
	Short: "Register a platform backed by a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		providerName, _ := cmd.Flags().GetString("provider")
		propsFile, _ := cmd.Flags().GetString("properties-file")

		properties, err := loadPropertiesFile(propsFile)
		if err != nil {
			return err
		}

		return runDriven(func(e *engine.Engine) *engine.TaskHandle {
			return e.Register(name, providerName, properties)
		})
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss NAME",
	Short: "Remove a registered platform",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		destroy, _ := cmd.Flags().GetBool("destroy")
		return runDriven(func(e *engine.Engine) *engine.TaskHandle {
			return e.Dismiss(name, destroy)
		})
	},
}

var offerCmd = &cobra.Command{
	Use:   "offer NAME",
	Short: "Build then publish an image onto a platform",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		imageFile, _ := cmd.Flags().GetString("image-file")
		img, err := loadImageFile(imageFile)
		if err != nil {
			return err
		}
		return runDriven(func(e *engine.Engine) *engine.TaskHandle {
			return e.Offer(name, img)
		})
	},
}

var retireCmd = &cobra.Command{
	Use:   "retire NAME",
	Short: "Remove then unpublish an image from a platform",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		imageFile, _ := cmd.Flags().GetString("image-file")
		img, err := loadImageFile(imageFile)
		if err != nil {
			return err
		}
		return runDriven(func(e *engine.Engine) *engine.TaskHandle {
			return e.Retire(name, img)
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch NAME",
	Short: "Watch a platform (currently a reserved no-op)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		return runDriven(func(e *engine.Engine) *engine.TaskHandle {
			return e.Watch(name)
		})
	},
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Persist the current registry without scheduling an operation",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()
		defer closeCatalogStore()
		return e.Store()
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the image catalog (requires --catalog-dir)",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every image recorded in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if catalogStore == nil {
			return fmt.Errorf("catalog: --catalog-dir was not set")
		}
		defer closeCatalogStore()
		images, err := catalogStore.List()
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		for _, img := range images {
			fmt.Println(img.Ref.String())
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)

	registerCmd.Flags().String("provider", "", "Provider name (required)")
	registerCmd.Flags().String("properties-file", "", "YAML file of provider properties")
	_ = registerCmd.MarkFlagRequired("provider")

	dismissCmd.Flags().Bool("destroy", false, "Call the provider's destroy before removing the platform")

	offerCmd.Flags().String("image-file", "", "YAML file describing the image to build and publish (required)")
	_ = offerCmd.MarkFlagRequired("image-file")

	retireCmd.Flags().String("image-file", "", "YAML file describing the image to remove and unpublish (required)")
	_ = retireCmd.MarkFlagRequired("image-file")
}

func loadPropertiesFile(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("properties file: %w", err)
	}
	var properties map[string]any
	if err := yaml.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("properties file: %w", err)
	}
	return properties, nil
}

// yamlImage is the on-disk shape an offer/retire --image-file decodes
// into before being converted to the engine's pkg/image.Image.
type yamlImage struct {
	Name  string `yaml:"name"`
	Tag   string `yaml:"tag"`
	Files []struct {
		Source string `yaml:"source"`
		Target string `yaml:"target"`
	} `yaml:"files"`
	Provision []struct {
		Args []string `yaml:"args"`
	} `yaml:"provision"`
	Execution []struct {
		Args []string `yaml:"args"`
	} `yaml:"execution"`
	Properties map[string]any `yaml:"properties"`
}

func loadImageFile(path string) (*image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("image file: %w", err)
	}
	var yi yamlImage
	if err := yaml.Unmarshal(data, &yi); err != nil {
		return nil, fmt.Errorf("image file: %w", err)
	}
	if yi.Name == "" {
		return nil, fmt.Errorf("image file: name is required")
	}

	img := &image.Image{
		Ref:        image.Ref{Name: yi.Name, Tag: yi.Tag},
		Properties: yi.Properties,
	}
	for _, f := range yi.Files {
		img.Definition.Files = append(img.Definition.Files, image.File{Source: f.Source, Target: f.Target})
	}
	for _, c := range yi.Provision {
		img.Definition.Provision = append(img.Definition.Provision, image.Command{Args: c.Args})
	}
	for _, c := range yi.Execution {
		img.Definition.Execution = append(img.Definition.Execution, image.Command{Args: c.Args})
	}
	return img, nil
}
