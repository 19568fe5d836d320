// mapshot renders a saved map file to PNG without opening the editor.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mapslate/mapslate/mapfile"
	"github.com/mapslate/mapslate/render"
)

func main() {
	out := flag.String("o", "", "output PNG path (default: input with .png)")
	scale := flag.Float64("scale", 1, "world units to pixels")
	padding := flag.Float64("padding", 16, "padding in pixels around the content")
	grid := flag.Bool("grid", false, "draw cell outlines")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: mapshot [flags] map.json\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	in := flag.Arg(0)

	doc, err := mapfile.Load(in)
	if err != nil {
		log.Fatal(err)
	}

	output := *out
	if output == "" {
		output = strings.TrimSuffix(in, ".json") + ".png"
	}

	err = render.ExportPNG(doc, output, render.ExportOptions{
		Scale:     *scale,
		PaddingPx: *padding,
		Grid:      *grid,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(output)
}
