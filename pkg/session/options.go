package session

import (
	"log"
	"time"

	"github.com/ajramos/tuirobot/internal/config"
	"github.com/ajramos/tuirobot/internal/journal"
	"github.com/ajramos/tuirobot/pkg/finder"
	"github.com/ajramos/tuirobot/pkg/printer"
)

type options struct {
	name         string
	logger       *log.Logger
	logFile      string
	logPrefix    string
	store        *journal.Store
	journalPath  string
	newHierarchy bool
	timeout      time.Duration
	poll         time.Duration
	scope        finder.Scope
	order        finder.Order
	printerOpts  []printer.Option
}

// Option configures a Session.
type Option func(*options)

func defaultOptions() options {
	return options{
		logPrefix:    config.DefaultLogConfig().Prefix,
		newHierarchy: true,
		scope:        finder.ShowingOnly,
		order:        finder.DepthFirst,
	}
}

// FromConfig applies a loaded configuration. Options after it override it.
func FromConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		o.timeout = cfg.GetTimeout()
		o.poll = cfg.GetPollInterval()
		o.newHierarchy = cfg.NewHierarchy
		if cfg.LookupScope == config.ScopeAll {
			o.scope = finder.All
		} else {
			o.scope = finder.ShowingOnly
		}
		if cfg.SearchOrder == config.OrderBreadth {
			o.order = finder.BreadthFirst
		} else {
			o.order = finder.DepthFirst
		}
		if cfg.Log.File != "" {
			o.logFile = cfg.Log.File
		}
		if cfg.Log.Prefix != "" {
			o.logPrefix = cfg.Log.Prefix
		}
		if cfg.Journal.Enabled {
			o.journalPath = cfg.Journal.Path
		}
		o.printerOpts = append(o.printerOpts, printer.WithMaxWidth(cfg.Printer.MaxWidth))
		if cfg.Printer.Indent != "" {
			o.printerOpts = append(o.printerOpts, printer.WithIndent(cfg.Printer.Indent))
		}
	}
}

// WithName labels the session in the journal and the log.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger logs session activity to l instead of the configured file.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithJournal records events and searches into store. The session does not
// close a store it did not open.
func WithJournal(store *journal.Store) Option {
	return func(o *options) { o.store = store }
}

// WithNewHierarchy controls whether windows that exist when the session
// starts are hidden from lookups. It is on by default.
func WithNewHierarchy(on bool) Option {
	return func(o *options) { o.newHierarchy = on }
}

// WithTimeout sets the default wait timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithPollInterval sets the default wait poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) { o.poll = d }
}

// WithScope sets the lookup scope of FindByName.
func WithScope(s finder.Scope) Option {
	return func(o *options) { o.scope = s }
}

// WithOrder sets the search order.
func WithOrder(order finder.Order) Option {
	return func(o *options) { o.order = order }
}
