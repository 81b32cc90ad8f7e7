package cmd

import (
	"fmt"
	"github.com/carlmjohnson/versioninfo"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/robinovitch61/vl/internal"
	"github.com/robinovitch61/vl/internal/current"
	"github.com/robinovitch61/vl/internal/keymap"
	"github.com/robinovitch61/vl/internal/listview"
	"github.com/robinovitch61/vl/internal/render"
	"github.com/robinovitch61/vl/internal/section"
	"github.com/robinovitch61/vl/internal/viewport"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"os"
	"strings"
	"time"
)

var (
	// Version is public so users can optionally specify or override the version
	// at build time by passing in ldflags, e.g.
	//   go build -ldflags "-X github.com/robinovitch61/vl/cmd.Version=vX.Y.Z"
	Version = ""
)

type arg struct {
	cliShort, cfgFileEnvVar, description, defaultString string
	isBool, isInt, isFloat, defaultIfBool               bool
	defaultIfInt                                        int
	defaultIfFloat                                      float64
}

var (
	rootNameToArg = map[string]arg{
		"async": {
			cfgFileEnvVar: "async",
			description:   `If present, create items asynchronously, a few per tick`,
			isBool:        true,
		},
		"batch": {
			cfgFileEnvVar: "batch",
			description:   `Rows per fetch when --incremental is set`,
			isInt:         true,
			defaultIfInt:  50,
		},
		"bottom-margin": {
			cfgFileEnvVar: "bottom-margin",
			description:   `Cells of margin after the footer`,
			isFloat:       true,
		},
		"cache-buffer": {
			cliShort:      "b",
			cfgFileEnvVar: "cache-buffer",
			description:   `Cells beyond each edge of the view kept materialized`,
			isFloat:       true,
		},
		"count": {
			cliShort:      "c",
			cfgFileEnvVar: "count",
			description:   `Number of items to start with`,
			isInt:         true,
			defaultIfInt:  1000,
		},
		"footer": {
			cfgFileEnvVar: "footer",
			description:   `Footer size in cells`,
			isFloat:       true,
		},
		"header": {
			cfgFileEnvVar: "header",
			description:   `Header size in cells`,
			isFloat:       true,
		},
		"help": {
			description: `Print usage`,
		},
		"highlight-begin": {
			cfgFileEnvVar: "highlight-begin",
			description:   `Start of the preferred highlight range, in cells from the start of the view`,
			isFloat:       true,
		},
		"highlight-end": {
			cfgFileEnvVar: "highlight-end",
			description:   `End of the preferred highlight range, in cells from the start of the view`,
			isFloat:       true,
		},
		"horizontal": {
			cfgFileEnvVar: "horizontal",
			description:   `If present, lay items out left to right on one line`,
			isBool:        true,
		},
		"incremental": {
			cliShort:      "i",
			cfgFileEnvVar: "incremental",
			description:   `If present, load rows in batches as the view nears the end`,
			isBool:        true,
		},
		"incubate": {
			cfgFileEnvVar: "incubate",
			description:   `Asynchronous creations completed per tick`,
			isInt:         true,
			defaultIfInt:  4,
		},
		"range-mode": {
			cfgFileEnvVar: "range-mode",
			description:   `Highlight range mode: none, apply or strict. Default none`,
		},
		"rtl": {
			cfgFileEnvVar: "rtl",
			description:   `If present with --horizontal, lay items out right to left`,
			isBool:        true,
		},
		"save-dir": {
			cfgFileEnvVar: "save-dir",
			description:   `Directory layouts are saved to. Defaults to the working directory`,
		},
		"section": {
			cliShort:      "s",
			cfgFileEnvVar: "section",
			description:   `If present, group items into sections by their group`,
			isBool:        true,
		},
		"section-criteria": {
			cfgFileEnvVar: "section-criteria",
			description:   `Section criteria: full or first (character). Default full`,
		},
		"section-positioning": {
			cfgFileEnvVar: "section-positioning",
			description:   `Comma-separated section label positions: inline, start, end. Default inline`,
		},
		"snap": {
			cfgFileEnvVar: "snap",
			description:   `Snap mode: none, item or one. Default none`,
		},
		"spacing": {
			cfgFileEnvVar: "spacing",
			description:   `Cells between items`,
			isFloat:       true,
		},
		"top-margin": {
			cfgFileEnvVar: "top-margin",
			description:   `Cells of margin before the header`,
			isFloat:       true,
		},
		"transition": {
			cliShort:      "t",
			cfgFileEnvVar: "transition",
			description:   `Duration of add, remove and move transitions, e.g. 150ms. Default none`,
		},
		"wrap": {
			cliShort:      "w",
			cfgFileEnvVar: "wrap",
			description:   `If present, moving the current item past either end wraps around`,
			isBool:        true,
		},
	}

	description = fmt.Sprintf(`vl %s
Leo Robinovitch <leorobinovitch@gmail.com>

vl is an interactive playground for an incremental list view: edit the model and watch the view follow

Home page: https://github.com/robinovitch61/vl`,
		getVersion(),
	)

	rootCmd = &cobra.Command{
		Use:   "vl",
		Short: "vl: list view playground",
		Long:  description,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, rootNameToArg)
		},
		Run:     mainEntrypoint,
		Version: getVersion(),
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

// init is called once when the cmd package is loaded
// https://golangdocs.com/init-function-in-golang
func init() {
	cliLong := "help"
	rootCmd.PersistentFlags().BoolP(cliLong, rootNameToArg[cliLong].cliShort, rootNameToArg[cliLong].defaultIfBool, rootNameToArg[cliLong].description)

	for _, cliLong = range []string{
		"async",
		"batch",
		"bottom-margin",
		"cache-buffer",
		"count",
		"footer",
		"header",
		"highlight-begin",
		"highlight-end",
		"horizontal",
		"incremental",
		"incubate",
		"range-mode",
		"rtl",
		"save-dir",
		"section",
		"section-criteria",
		"section-positioning",
		"snap",
		"spacing",
		"top-margin",
		"transition",
		"wrap",
	} {
		c := rootNameToArg[cliLong]
		if c.isBool {
			rootCmd.PersistentFlags().BoolP(cliLong, c.cliShort, c.defaultIfBool, c.description)
		} else if c.isInt {
			rootCmd.PersistentFlags().IntP(cliLong, c.cliShort, c.defaultIfInt, c.description)
		} else if c.isFloat {
			rootCmd.PersistentFlags().Float64P(cliLong, c.cliShort, c.defaultIfFloat, c.description)
		} else {
			rootCmd.PersistentFlags().StringP(cliLong, c.cliShort, c.defaultString, c.description)
		}
		_ = viper.BindPFlag(cliLong, rootCmd.PersistentFlags().Lookup(c.cfgFileEnvVar))
	}
	rootCmd.SetVersionTemplate(`{{printf "vl %s\n" .Version}}`)
	rootCmd.Flags().BoolP("version", "v", false, "Show vl version")
}

func initConfig(cmd *cobra.Command, nameToArg map[string]arg) error {
	// bind viper to env vars, e.g. VL_COUNT or VL_CACHE_BUFFER
	viper.SetEnvPrefix("vl")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	bindFlags(cmd, nameToArg)
	return nil
}

func bindFlags(cmd *cobra.Command, nameToArg map[string]arg) {
	v := viper.GetViper()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Determine the naming convention of the flags when represented in the config file
		cliLong := f.Name
		viperName := nameToArg[cliLong].cfgFileEnvVar
		if viperName == "" {
			return
		}

		// Apply the viper config value to the flag when the flag is not manually specified
		// and viper has a value from the config file or env var
		if !f.Changed && v.IsSet(viperName) {
			val := v.Get(viperName)
			err := cmd.Flags().Set(cliLong, fmt.Sprintf("%v", val))
			if err != nil {
				fmt.Printf("error setting flag %s: %v\n", cliLong, err)
				os.Exit(1)
			}
		}
	})
}

func mainEntrypoint(cmd *cobra.Command, _ []string) {
	initialModel, options := setup(cmd)
	program := tea.NewProgram(initialModel, options...)

	if _, err := program.Run(); err != nil {
		fmt.Printf("error on vl startup: %v", err)
		os.Exit(1)
	}
}

func getVersion() string {
	if Version != "" {
		return Version
	}
	return versioninfo.Short()
}

func exitOnErr(what string, err error) {
	if err != nil {
		fmt.Printf("error parsing %s: %v\n", what, err)
		os.Exit(1)
	}
}

func getBool(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Lookup(name).Value.String() == "true"
}

func getNonNegativeInt(cmd *cobra.Command, name string) int {
	n, err := cmd.Flags().GetInt(name)
	exitOnErr(name, err)
	if n < 0 {
		fmt.Printf("error: %s must be non-negative\n", name)
		os.Exit(1)
	}
	return n
}

func getNonNegativeFloat(cmd *cobra.Command, name string) float64 {
	f, err := cmd.Flags().GetFloat64(name)
	exitOnErr(name, err)
	if f < 0 {
		fmt.Printf("error: %s must be non-negative\n", name)
		os.Exit(1)
	}
	return f
}

func getRangeMode(cmd *cobra.Command) current.RangeMode {
	mode, err := parseRangeMode(cmd.Flags().Lookup("range-mode").Value.String())
	exitOnErr("range-mode", err)
	return mode
}

func parseRangeMode(s string) (current.RangeMode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return current.NoRange, nil
	case "apply":
		return current.ApplyRange, nil
	case "strict":
		return current.StrictlyEnforceRange, nil
	}
	return current.NoRange, fmt.Errorf("unknown range mode %q", s)
}

func getSnapMode(cmd *cobra.Command) viewport.SnapMode {
	mode, err := parseSnapMode(cmd.Flags().Lookup("snap").Value.String())
	exitOnErr("snap", err)
	return mode
}

func parseSnapMode(s string) (viewport.SnapMode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return viewport.NoSnap, nil
	case "item":
		return viewport.SnapToItem, nil
	case "one":
		return viewport.SnapOneItem, nil
	}
	return viewport.NoSnap, fmt.Errorf("unknown snap mode %q", s)
}

func parseSectionCriteria(s string) (section.Criteria, error) {
	switch strings.ToLower(s) {
	case "", "full":
		return section.FullString, nil
	case "first":
		return section.FirstCharacter, nil
	}
	return section.FullString, fmt.Errorf("unknown section criteria %q", s)
}

func parseSectionPositioning(s string) (section.Positioning, error) {
	if s == "" {
		return section.InlineLabels, nil
	}
	var p section.Positioning
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "inline":
			p |= section.InlineLabels
		case "start":
			p |= section.CurrentLabelAtStart
		case "end":
			p |= section.NextLabelAtEnd
		default:
			return 0, fmt.Errorf("unknown section position %q", part)
		}
	}
	return p, nil
}

func getTransitionDuration(cmd *cobra.Command) time.Duration {
	s := cmd.Flags().Lookup("transition").Value.String()
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	exitOnErr("transition", err)
	return d
}

func getViewConfig(cmd *cobra.Command) listview.Config {
	cfg := listview.DefaultConfig()
	// sizes are in terminal cells; the estimate before measuring is set once the orientation is known
	cfg.SizeHint = 0
	cfg.SectionLabelSize = 1
	cfg.CacheBuffer = getNonNegativeFloat(cmd, "cache-buffer")
	cfg.Spacing = getNonNegativeFloat(cmd, "spacing")
	cfg.TopMargin = getNonNegativeFloat(cmd, "top-margin")
	cfg.BottomMargin = getNonNegativeFloat(cmd, "bottom-margin")
	cfg.HeaderSize = getNonNegativeFloat(cmd, "header")
	cfg.FooterSize = getNonNegativeFloat(cmd, "footer")
	cfg.HighlightRangeMode = getRangeMode(cmd)
	cfg.PreferredHighlightBegin = getNonNegativeFloat(cmd, "highlight-begin")
	cfg.PreferredHighlightEnd = getNonNegativeFloat(cmd, "highlight-end")
	if cfg.PreferredHighlightEnd < cfg.PreferredHighlightBegin {
		fmt.Println("error: highlight-end must not be before highlight-begin")
		os.Exit(1)
	}
	cfg.SnapMode = getSnapMode(cmd)
	cfg.KeyNavigationWraps = getBool(cmd, "wrap")
	cfg.Asynchronous = getBool(cmd, "async")

	if getBool(cmd, "horizontal") {
		cfg.Orientation = listview.Horizontal
		if getBool(cmd, "rtl") {
			cfg.LayoutDirection = listview.RightToLeft
		}
	}

	if getBool(cmd, "section") {
		cfg.SectionField = render.GroupRole
		criteria, err := parseSectionCriteria(cmd.Flags().Lookup("section-criteria").Value.String())
		exitOnErr("section-criteria", err)
		cfg.SectionCriteria = criteria
		positioning, err := parseSectionPositioning(cmd.Flags().Lookup("section-positioning").Value.String())
		exitOnErr("section-positioning", err)
		cfg.SectionPositioning = positioning
	}

	// new items slide in from two cells before their place
	cfg.Transitions = internal.DefaultTransitions(getTransitionDuration(cmd), -2)
	return cfg
}

func getConfig(cmd *cobra.Command) internal.Config {
	return internal.Config{
		KeyMap:            keymap.DefaultKeyMap(),
		View:              getViewConfig(cmd),
		Count:             getNonNegativeInt(cmd, "count"),
		Incremental:       getBool(cmd, "incremental"),
		BatchSize:         max(getNonNegativeInt(cmd, "batch"), 1),
		IncubateBatchSize: max(getNonNegativeInt(cmd, "incubate"), 1),
		SaveDir:           cmd.Flags().Lookup("save-dir").Value.String(),
		Version:           getVersion(),
	}
}

func setup(cmd *cobra.Command) (internal.Model, []tea.ProgramOption) {
	initialModel := internal.InitialModel(getConfig(cmd))
	return initialModel, []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
}
