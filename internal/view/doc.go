// Package view is the interactive terminal viewer behind "fly view".
//
// The viewer draws the shown layer of the keymap, the HID report the host
// currently sees, and the most recent reports and key decisions. The
// letter rows of a QWERTY terminal keyboard stand in for the three main
// rows of the matrix and the digits 1-6 for the thumb cluster:
//
//	q w e r t   y u i o p
//	a s d f g   h j k l ;
//	z x c v b   n m , . /
//	    1 2 3   4 5 6
//
// A plain key is a tap: a press immediately followed by a release. The
// shifted key toggles the position down or up, which is how mod-tap and
// layer-tap holds are made. The arrow keys pin another layer on screen and
// Tab goes back to following the highest active layer.
//
// Wiring:
//
//	v := view.New(screen, view.Options{})
//	application, _ := app.New(app.Options{Sink: v})
//	application.System().Hooks().RegisterNamed(v, "view")
//	go application.Run(ctx, events)
//	err := v.Run(ctx, application, events)
package view
