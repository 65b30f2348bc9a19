package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/scopekit/scopekit/internal/namereg"
	"github.com/scopekit/scopekit/internal/objreg"
	"github.com/scopekit/scopekit/internal/pubsub"
	"github.com/scopekit/scopekit/internal/registry"
	"github.com/scopekit/scopekit/internal/tracing"
)

var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Run a scripted registry session and print what happens",
	Long: `Run a scripted registry session: register a container with two
widgets, attach an observable and a property, bind a controller, and
tear one widget down. Lifecycle events and the binding table are
printed as they happen, which makes this a quick way to see how
identifier rekeying behaves.`,
	RunE: runPlayground,
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}

func runPlayground(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	ctx, span := provider.Tracer().Start(ctx, tracing.SpanPrefixRegistry+"playground")
	defer span.End()

	broker := pubsub.NewBrokerWithBuffer[registry.Event](cfg.Registry.EventBuffer)
	events := broker.Subscribe(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range events {
			if evt.Payload.OldID != "" {
				fmt.Fprintf(out, "event %-12s %s %s (was %s)\n", evt.Kind, evt.Payload.Entity, evt.Payload.ID, evt.Payload.OldID)
			} else {
				fmt.Fprintf(out, "event %-12s %s %s\n", evt.Kind, evt.Payload.Entity, evt.Payload.ID)
			}
		}
	}()

	reg := registry.New(registry.WithEvents(broker))
	names := namereg.New()
	objects := objreg.New()

	type widget struct{ kind string }
	type signal struct{ label string }

	codeFor := func(kind string) string {
		if code, ok := cfg.TypeCodes[kind]; ok {
			return code
		}
		return kind
	}

	// a container holding a scope and a readout
	dash := &widget{kind: "container"}
	dashID, err := reg.RegisterWidget(dash, codeFor("container"), registry.RegisterWidgetOptions{})
	if err != nil {
		return err
	}

	scope := &widget{kind: "scope"}
	scopeID, err := reg.RegisterWidget(scope, codeFor("scope"), registry.RegisterWidgetOptions{
		ContainerID: dashID,
		Location:    "dock.left",
	})
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String(tracing.AttrWidgetID, scopeID))

	readout := &widget{kind: "readout"}
	readoutID, err := reg.RegisterWidget(readout, codeFor("readout"), registry.RegisterWidgetOptions{
		ContainerID: dashID,
		Location:    "dock.right",
	})
	if err != nil {
		return err
	}

	names.Register("main-dash", codeFor("container"), "")
	objects.Register(&signal{label: "channel A"}, "")

	// a voltage observable with a scale property controlled by the scope
	volts := &signal{label: "volts"}
	voltsID, err := reg.RegisterObservable(volts, registry.RegisterObservableOptions{})
	if err != nil {
		return err
	}

	propID, err := reg.RegisterProperty("scale", registry.RegisterPropertyOptions{
		Observable:   volts,
		ObservableID: voltsID,
	})
	if err != nil {
		return err
	}

	if !reg.UpdateProperty(propID, scopeID) {
		return fmt.Errorf("binding controller: property %s vanished", propID)
	}
	// binding the controller rekeyed the observable and its property
	voltsID, _ = reg.ObservableID(volts)
	propID = reg.PropertyIDs(voltsID)[0]

	// the readout watches the same property without controlling it
	if !reg.BindWidget(propID, readoutID, false) {
		return fmt.Errorf("binding readout to %s", propID)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "bindings:")
	for _, b := range reg.Bindings(registry.BindingQuery{}) {
		marker := " "
		if b.IsController {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %s <-> %s\n", marker, b.WidgetID, b.PropertyID)
	}

	// tearing down the scope unbinds it everywhere it was bound
	reg.UnregisterWidget(scopeID)

	broker.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "widgets remaining: %d\n", len(reg.FindWidgetIDs(registry.WidgetQuery{})))
	fmt.Fprintf(out, "dash registered as %q: %v\n", "main-dash", names.IsRegistered("main-dash"))
	fmt.Fprintf(out, "objects stored: %d\n", objects.Len())

	return nil
}
