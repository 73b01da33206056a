package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/aligator/gocfb/internal/cfbtest"
)

func pattern(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i*7 + i/256)
	}
	return data
}

// main writes the sample compound files to testdata. Can be executed using 'go generate' from the project root.
func main() {
	dest := "testdata"
	modified := time.Date(2021, 6, 1, 12, 30, 0, 0, time.UTC)

	sample := cfbtest.Root(
		cfbtest.Stream("TestStream", []byte("0123456789")),
		cfbtest.Stream("BigStream", pattern(8192)),
		&cfbtest.Node{
			Name:     "Storage",
			Storage:  true,
			Modified: modified,
			Children: []*cfbtest.Node{
				cfbtest.Stream("Inner", []byte("inner data")),
				cfbtest.Storage("Nested", cfbtest.Stream("Deep", []byte("deep"))),
			},
		},
	)

	files := map[string]struct {
		root *cfbtest.Node
		opts cfbtest.Options
	}{
		"sample.cfb":       {root: sample},
		"sample-4096.cfb":  {root: sample, opts: cfbtest.Options{SectorShift: 12}},
		"sample-difat.cfb": {root: cfbtest.Root(cfbtest.Stream("Large", pattern(140*512))), opts: cfbtest.Options{HeaderFATSlots: 1}},
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		panic(err)
	}

	for name, file := range files {
		data, _ := cfbtest.Build(file.root, file.opts)
		if err := os.WriteFile(filepath.Join(dest, name), data, 0644); err != nil {
			panic(err)
		}
	}
}
