// Package pkg provides the core libraries for fontnode, which renders text
// in Google Fonts families and packages it as image and mask tensors.
//
// # Overview
//
// A render flows through these packages:
//
//	Google Fonts catalog
//	         ↓
//	    [integrations/googlefonts] (fetch once per process)
//	         ↓
//	    [fonts] (resolve weight and style against the family's variants)
//	         ↓
//	    [markup] (HTML document for the geometry mode)
//	         ↓
//	    [raster] (paint in headless Chrome, measure, screenshot)
//	         ↓
//	    [tensor] (RGB image [1,H,W,3] + alpha mask [1,H,W])
//
// The stages live in [integrations/googlefonts], [fonts], [markup], [raster]
// and [tensor].
//
// [pipeline] runs the whole chain and is shared by the CLI and the HTTP node
// host. [node] declares the three node definitions and converts host
// parameters into pipeline options.
//
// # Quick Start
//
//	store, _ := cache.NewFileCache(dir)
//	catalog := googlefonts.NewClient(store, cache.TTLCatalog, apiKey)
//	rasterizer := raster.New(&chrome.Engine{}, logger)
//
//	runner := pipeline.NewRunner(catalog, rasterizer, store, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    FontFamily: "Lobster",
//	    Text:       "Hello",
//	    Geometry:   "auto",
//	})
//
// # Supporting Packages
//
// [cache] - File, Redis and null byte caches for the catalog and captures.
//
// [errors] - Structured errors with codes shared by the CLI and HTTP host.
//
// [httputil] - Retry with exponential backoff for transient HTTP failures.
//
// [observability] - Hook registry for catalog, render, cache and HTTP events.
//
// [buildinfo] - Version information injected at build time.
//
// [integrations/googlefonts]: https://pkg.go.dev/github.com/ru4ls/ComfyUI-Google-Fonts/pkg/integrations/googlefonts
// [fonts]: https://pkg.go.dev/github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts
// [markup]: https://pkg.go.dev/github.com/ru4ls/ComfyUI-Google-Fonts/pkg/markup
// [raster]: https://pkg.go.dev/github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster
// [tensor]: https://pkg.go.dev/github.com/ru4ls/ComfyUI-Google-Fonts/pkg/tensor
// [pipeline]: https://pkg.go.dev/github.com/ru4ls/ComfyUI-Google-Fonts/pkg/pipeline
// [node]: https://pkg.go.dev/github.com/ru4ls/ComfyUI-Google-Fonts/pkg/node
// [cache]: https://pkg.go.dev/github.com/ru4ls/ComfyUI-Google-Fonts/pkg/cache
// [errors]: https://pkg.go.dev/github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/ru4ls/ComfyUI-Google-Fonts/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/ru4ls/ComfyUI-Google-Fonts/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/ru4ls/ComfyUI-Google-Fonts/pkg/buildinfo
package pkg
