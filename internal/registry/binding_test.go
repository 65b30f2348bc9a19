package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scopekit/scopekit/internal/ident"
)

func TestBindWidgetToObservable_FirstBindRekeys(t *testing.T) {
	reg := New()
	o := &fakeObservable{}

	obsID, err := reg.RegisterObservable(o, RegisterObservableOptions{})
	require.NoError(t, err)
	require.Equal(t, ident.NullField, ident.WidgetIDOf(obsID))
	widgetID, err := reg.RegisterWidget(&fakeWidget{}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)

	newID := reg.BindWidgetToObservable(widgetID, obsID)

	// The observable's current id embeds the widget's unique component.
	current, ok := reg.ObservableID(o)
	require.True(t, ok)
	require.Equal(t, newID, current)
	require.Equal(t, ident.UniqueIDOf(widgetID), ident.WidgetIDOf(current))

	// The new key resolves to the same handle; the old key is gone.
	got, ok := reg.Observable(newID)
	require.True(t, ok)
	require.Same(t, o, got)
	_, ok = reg.Observable(obsID)
	require.False(t, ok)
}

func TestBindWidgetToObservable_SecondBindIsIndexOnly(t *testing.T) {
	reg := New()
	o := &fakeObservable{}

	obsID, err := reg.RegisterObservable(o, RegisterObservableOptions{})
	require.NoError(t, err)
	w1, err := reg.RegisterWidget(&fakeWidget{label: "w1"}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)
	w2, err := reg.RegisterWidget(&fakeWidget{label: "w2"}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)

	afterFirst := reg.BindWidgetToObservable(w1, obsID)
	afterSecond := reg.BindWidgetToObservable(w2, afterFirst)

	require.Equal(t, afterFirst, afterSecond, "only the first bind rewrites the id")
	require.Equal(t, ident.UniqueIDOf(w1), ident.WidgetIDOf(afterSecond))
	require.ElementsMatch(t, []string{w1, w2}, reg.WidgetsOf(afterSecond))
}

func TestBinding_Symmetry(t *testing.T) {
	reg := New()

	obsID, err := reg.RegisterObservable(&fakeObservable{}, RegisterObservableOptions{})
	require.NoError(t, err)
	widgetID, err := reg.RegisterWidget(&fakeWidget{}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)

	obsID = reg.BindWidgetToObservable(widgetID, obsID)
	require.Contains(t, reg.ObservablesOf(widgetID), obsID)
	require.Contains(t, reg.WidgetsOf(obsID), widgetID)

	obsID = reg.UnbindWidgetFromObservable(widgetID, obsID)
	require.Empty(t, reg.ObservablesOf(widgetID))
	require.Empty(t, reg.WidgetsOf(obsID))
}

func TestUnbindWidgetFromObservable_LastUnbindClearsField(t *testing.T) {
	reg := New()
	o := &fakeObservable{}

	obsID, err := reg.RegisterObservable(o, RegisterObservableOptions{})
	require.NoError(t, err)
	widgetID, err := reg.RegisterWidget(&fakeWidget{}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)

	bound := reg.BindWidgetToObservable(widgetID, obsID)
	cleared := reg.UnbindWidgetFromObservable(widgetID, bound)

	require.Equal(t, obsID, cleared, "the id returns to its unbound form")
	current, _ := reg.ObservableID(o)
	require.Equal(t, cleared, current)
}

func TestUnbindWidgetFromObservable_NoStaleKeysAfterRekey(t *testing.T) {
	// The rekey on last-unbind must sweep the widget-side sets exactly
	// like the bind direction does, leaving no reference to the old id.
	reg := New()
	o := &fakeObservable{}

	obsID, err := reg.RegisterObservable(o, RegisterObservableOptions{})
	require.NoError(t, err)
	w1, err := reg.RegisterWidget(&fakeWidget{label: "w1"}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)
	w2, err := reg.RegisterWidget(&fakeWidget{label: "w2"}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)

	obsID = reg.BindWidgetToObservable(w1, obsID)
	obsID = reg.BindWidgetToObservable(w2, obsID)

	// Unbind the embedded widget first: per the grammar the field only
	// clears once the last widget goes, so w2's set entry must be moved
	// to the rewritten id at that point.
	obsID = reg.UnbindWidgetFromObservable(w1, obsID)
	stillBound := reg.ObservablesOf(w2)
	require.Equal(t, []string{obsID}, stillBound)

	obsID = reg.UnbindWidgetFromObservable(w2, obsID)
	require.Empty(t, reg.ObservablesOf(w1))
	require.Empty(t, reg.ObservablesOf(w2))
	for _, id := range reg.FindObservableIDs(ObservableQuery{}) {
		require.Equal(t, obsID, id)
	}
}

func TestControllerRekey_SweepsOtherWidgetsSets(t *testing.T) {
	// A controller change rewrites the observable's id while another
	// widget still holds a direct binding; that widget's set must be
	// moved to the new key in the same step, in both directions.
	reg := New()
	o := &fakeObservable{}

	obsID, err := reg.RegisterObservable(o, RegisterObservableOptions{})
	require.NoError(t, err)
	w1, err := reg.RegisterWidget(&fakeWidget{label: "controller"}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)
	w2, err := reg.RegisterWidget(&fakeWidget{label: "direct"}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)

	obsID = reg.BindWidgetToObservable(w2, obsID)
	propID, err := reg.RegisterProperty("gain", RegisterPropertyOptions{ObservableID: obsID})
	require.NoError(t, err)
	require.True(t, reg.BindWidget(propID, w1, true))

	obsID, _ = reg.ObservableID(o)
	require.Equal(t, ident.UniqueIDOf(w1), ident.WidgetIDOf(obsID))
	require.Equal(t, []string{obsID}, reg.ObservablesOf(w2), "w2's set follows the rekey")
	require.Contains(t, reg.WidgetsOf(obsID), w2)

	propID = reg.PropertyIDs(obsID)[0]
	require.True(t, reg.UnbindWidget(propID, w1))

	obsID, _ = reg.ObservableID(o)
	require.Equal(t, ident.NullField, ident.WidgetIDOf(obsID))
	require.Equal(t, []string{obsID}, reg.ObservablesOf(w2), "w2's set follows the clearing rekey too")
}

func TestUnbindWidgetFromObservable_UnknownPairIsNoop(t *testing.T) {
	reg := New()

	obsID, err := reg.RegisterObservable(&fakeObservable{}, RegisterObservableOptions{})
	require.NoError(t, err)

	got := reg.UnbindWidgetFromObservable("c:9:0:0", obsID)
	require.Equal(t, obsID, got)
}

func TestBindings_PropertyScoped(t *testing.T) {
	reg := New()
	o := &fakeObservable{}

	w1, err := reg.RegisterWidget(&fakeWidget{label: "w1"}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)
	w2, err := reg.RegisterWidget(&fakeWidget{label: "w2"}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)
	obsID, err := reg.RegisterObservable(o, RegisterObservableOptions{})
	require.NoError(t, err)
	propID, err := reg.RegisterProperty("gain", RegisterPropertyOptions{ObservableID: obsID})
	require.NoError(t, err)

	require.True(t, reg.BindWidget(propID, w1, false))
	require.True(t, reg.UpdateProperty(propID, w2))

	obsID, _ = reg.ObservableID(o)
	propID = reg.PropertyIDs(obsID)[0]

	bindings := reg.Bindings(BindingQuery{PropertyID: propID})
	require.Len(t, bindings, 2)
	for _, b := range bindings {
		require.Equal(t, propID, b.PropertyID)
		require.Equal(t, obsID, b.ObservableID)
		require.Equal(t, b.WidgetID == w2, b.IsController)
	}
}

func TestBindings_WidgetAndObservableScoped(t *testing.T) {
	reg := New()
	o := &fakeObservable{}

	w1, err := reg.RegisterWidget(&fakeWidget{label: "w1"}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)
	w2, err := reg.RegisterWidget(&fakeWidget{label: "w2"}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)
	obsID, err := reg.RegisterObservable(o, RegisterObservableOptions{})
	require.NoError(t, err)
	propID, err := reg.RegisterProperty("gain", RegisterPropertyOptions{ObservableID: obsID, WidgetID: w1})
	require.NoError(t, err)
	_ = propID

	// w2 has only a direct binding, no property.
	obsID, _ = reg.ObservableID(o)
	obsID = reg.BindWidgetToObservable(w2, obsID)

	w1Bindings := reg.Bindings(BindingQuery{WidgetID: w1})
	require.Len(t, w1Bindings, 1)
	require.NotEmpty(t, w1Bindings[0].PropertyID)
	require.Equal(t, w1, w1Bindings[0].WidgetID)

	w2Bindings := reg.Bindings(BindingQuery{WidgetID: w2})
	require.Len(t, w2Bindings, 1)
	require.Empty(t, w2Bindings[0].PropertyID, "direct bindings carry no property id")
	require.Equal(t, obsID, w2Bindings[0].ObservableID)
	require.True(t, w2Bindings[0].IsController, "w2 is the embedded controller after the first direct bind")

	obsBindings := reg.Bindings(BindingQuery{ObservableID: obsID})
	require.Len(t, obsBindings, 2)
}

func TestBindings_GlobalDedupsDirectPairs(t *testing.T) {
	reg := New()
	o := &fakeObservable{}

	w1, err := reg.RegisterWidget(&fakeWidget{label: "w1"}, "c", RegisterWidgetOptions{})
	require.NoError(t, err)
	obsID, err := reg.RegisterObservable(o, RegisterObservableOptions{ParentID: w1})
	require.NoError(t, err)
	propID, err := reg.RegisterProperty("gain", RegisterPropertyOptions{ObservableID: obsID, WidgetID: w1})
	require.NoError(t, err)
	_ = propID

	// (obsID, w1) exists both as a direct binding from registration and
	// through the property; the global view keeps the property row.
	bindings := reg.Bindings(BindingQuery{})
	require.Len(t, bindings, 1)
	require.NotEmpty(t, bindings[0].PropertyID)
	require.Equal(t, w1, bindings[0].WidgetID)
	require.Equal(t, obsID, bindings[0].ObservableID)
}
