// Package lookbook is a product-sticker editor for [Ebitengine].
//
// Users paste product image URLs, pick a product type, and place the
// products over a model photo. Each placed product can be dragged around
// the viewer, zoomed with the mouse wheel, and removed with its corner
// control. A side list mirrors the products in insertion order.
//
// # Quick start
//
// [Run] loads everything from a [Config] and blocks until the window
// closes:
//
//	cfg, err := lookbook.LoadConfig("lookbook.yaml")
//	if err != nil { ... }
//	log, _ := lookbook.NewLogger(cfg.Logger, cfg.Debug)
//	lookbook.Run(cfg, log)
//
// For full control, build an [App] with [NewApp] and pass it to
// [ebiten.RunGame] yourself.
//
// # Model
//
// [Store] is the single source of truth. Products have a unique ID, an image
// URL, a type, a position relative to the viewer's top-left corner and a
// scale clamped to [ScaleMin, ScaleMax]. Views never hold product state of
// their own: [ListPanel] and [Overlay] are rebuilt from the store on every
// change, while drags and zooms patch the live overlay element in place.
//
// # Scene graph
//
// Everything on screen is a [Node] in a retained tree rooted at
// [Scene.Root]. Children inherit their parent's transform and alpha and are
// drawn in ZIndex order. Pointer input is hit-tested in reverse painter
// order, so the topmost interactable node wins; see [Node.OnPointerDown],
// [Node.OnClick] and [Node.OnWheel].
//
// Tests and replay scripts drive the scene without a window through
// [Scene.InjectClick], [Scene.InjectDrag] and [Scene.InjectWheel].
//
// # Images
//
// [ImageCache] fetches each URL once in the background (HTTP, file:// or a
// local path) and hands textures back on the game goroutine. Failed loads
// show a placeholder instead of the product.
//
// [Ebitengine]: https://ebitengine.org
package lookbook
