package internal

import (
	"flag"
	"fmt"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/robinovitch61/vl/internal/constants"
	"github.com/robinovitch61/vl/internal/dev"
	"github.com/robinovitch61/vl/internal/listview"
	"github.com/robinovitch61/vl/internal/model"
	"github.com/robinovitch61/vl/internal/render"
	"k8s.io/klog/v2"
)

var klogInitialized bool

// initLogging keeps structured warnings off the terminal the program draws on, unless debugging
func initLogging() {
	if klogInitialized {
		return
	}
	klogInitialized = true
	klog.InitFlags(nil)
	_ = flag.Set("logtostderr", "false")
	_ = flag.Set("alsologtostderr", "false")
	if dev.Enabled() {
		_ = flag.Set("log_file", "vl-klog.log")
		_ = flag.Set("v", "2")
		return
	}
	_ = flag.Set("stderrthreshold", "FATAL")
	_ = flag.Set("v", "0")
}

// demoItem is the n-th item ever created. Names stay unique across edits so moves are easy to follow
func demoItem(n int) model.Item {
	group := constants.GroupNames[(n/constants.GroupRunLength)%len(constants.GroupNames)]
	return model.NewItem(map[string]any{
		render.NameRole:  fmt.Sprintf("Item %d", n),
		render.GroupRole: group,
		render.LinesRole: 1,
	})
}

func initializedModel(m Model) Model {
	dev.Debug("initializing")
	defer dev.Debug("done initializing")
	dev.Debug("------------")

	initLogging()

	items := make([]model.Item, m.config.Count)
	for i := range items {
		items[i] = m.nextItem()
	}
	m.source = model.NewRoleList([]string{render.NameRole, render.GroupRole, render.LinesRole}, items...)
	var list model.ListModel = m.source
	if m.config.Incremental {
		m.incremental = model.NewIncremental(m.source, m.config.BatchSize)
		list = m.incremental
	}

	m.topBarHeight = lipgloss.Height(m.topBar())
	cfg := m.config.View
	cfg.Width, cfg.Height = m.listSize()
	if cfg.SizeHint <= 0 {
		cfg.SizeHint = 1
		if cfg.Orientation == listview.Horizontal {
			cfg.SizeHint = constants.HorizontalSizeHint
		}
	}
	m.renderer = render.New()
	delegate := render.Delegate{Horizontal: cfg.Orientation == listview.Horizontal}
	m.view = listview.New(list, delegate, m.renderer, m.renderer, cfg)
	m.initialized = true
	return m
}
