// Command cfbcat lists the storages and streams of a compound file or dumps one stream.
//
//	cfbcat [--header] [-r] file.msg
//	cfbcat -c "__substg1.0_0037001F" file.msg
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aligator/gocfb"
	"github.com/golang/glog"
	"github.com/spf13/afero"
	pflag "github.com/spf13/pflag"
	"golang.org/x/exp/mmap"
)

var (
	recursive  = pflag.BoolP("recursive", "r", false, "list nested storages too")
	cat        = pflag.StringP("cat", "c", "", "write the content of the stream at this path to stdout")
	showHeader = pflag.Bool("header", false, "print the decoded file header")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] <file>\n", os.Args[0])
	pflag.PrintDefaults()
}

// load maps the file and copies it into memory, the Reader keeps the bytes after the mapping is gone.
func load(name string) ([]byte, error) {
	m, err := mmap.Open(name)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	data := make([]byte, m.Len())
	if _, err := m.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, err
	}
	glog.V(1).Infof("mapped %s, %d bytes", name, len(data))
	return data, nil
}

func printHeader(h gocfb.Header) {
	fmt.Printf("version:            %d.%d\n", h.MajorVersion, h.MinorVersion)
	fmt.Printf("sector size:        %d\n", h.SectorSize)
	fmt.Printf("mini sector size:   %d\n", h.MiniSectorSize)
	fmt.Printf("mini stream cutoff: %d\n", h.MiniStreamCutoff)
	fmt.Printf("FAT sectors:        %d\n", h.FATSectorCount)
	fmt.Printf("first dir sector:   %d\n", h.FirstDirSector)
	fmt.Printf("mini-FAT:           %d sectors at %d\n", h.MiniFATSectorCount, h.FirstMiniFATSector)
	fmt.Printf("DIFAT:              %d sectors at %d\n", h.DIFATSectorCount, h.FirstDIFATSector)
	fmt.Println()
}

func describe(name string, info os.FileInfo) string {
	entry, ok := info.Sys().(gocfb.DirEntry)
	if !ok {
		return name
	}
	if entry.IsStorage() {
		return fmt.Sprintf("%-8s %10s  %s", entry.Kind, "", name)
	}
	return fmt.Sprintf("%-8s %10d  %s", entry.Kind, info.Size(), name)
}

func list(cfs *gocfb.Fs) error {
	if !*recursive {
		infos, err := afero.ReadDir(cfs, "/")
		if err != nil {
			return err
		}
		for _, info := range infos {
			fmt.Println(describe(info.Name(), info))
		}
		return nil
	}

	return afero.Walk(cfs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			glog.Warningf("could not walk %q: %v", p, err)
			return nil
		}
		if p == "/" {
			return nil
		}
		fmt.Println(describe(path.Clean(p)[1:], info))
		return nil
	})
}

func dump(cfs *gocfb.Fs, name string) error {
	file, err := cfs.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	n, err := io.Copy(os.Stdout, file)
	glog.V(1).Infof("wrote %d bytes of %q", n, name)
	return err
}

func main() {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Usage = usage
	pflag.Parse()
	defer glog.Flush()

	if pflag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	data, err := load(pflag.Arg(0))
	if err != nil {
		glog.Exitf("could not read %s: %v", pflag.Arg(0), err)
	}

	r, err := gocfb.New(data)
	if err != nil {
		glog.Exitf("could not open %s: %v", pflag.Arg(0), err)
	}
	cfs := gocfb.NewFs(r)

	if *showHeader {
		printHeader(r.Header())
	}

	if *cat != "" {
		if err := dump(cfs, *cat); err != nil {
			glog.Exitf("could not dump %q: %v", *cat, err)
		}
		return
	}

	if err := list(cfs); err != nil {
		glog.Exitf("could not list %s: %v", pflag.Arg(0), err)
	}
}
