package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nvr-ai/go-memimg/codec"
	"github.com/nvr-ai/go-memimg/convert"
	"github.com/nvr-ai/go-memimg/images"
	"github.com/nvr-ai/go-memimg/mat"
	"github.com/nvr-ai/go-memimg/memory"
	"github.com/nvr-ai/go-memimg/pixfmt"
	"github.com/nvr-ai/go-memimg/saver"
	"github.com/nvr-ai/go-memimg/session"
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("from-file", "", "Read from a raw dump file instead of a live process")
	pf.String("base", "0x0", "Address the --from-file dump starts at")
	pf.String("rescale16", convert.Rescale16Inverse.String(), "16-bit reduction (inverse, linear)")

	f := rootCmd.Flags()
	f.StringP("out", "o", "out", "Output file; the codec extension is appended when missing")
	f.String("order", "rgb", "Channel order of 3 and 4 channel data (rgb, bgr)")
	f.StringP("codec", "c", "", "Encoder ("+strings.Join(codecNames(), ", ")+"); default from the --out extension")
	f.Bool("remember", false, "Store pid, address, geometry and format in the session file")
}

// pipeline holds what every command that reads memory needs. The channel order
// comes from each target.
type pipeline struct {
	reader    *memory.Reader
	converter convert.Converter
}

func newPipeline(cmd *cobra.Command) (*pipeline, error) {
	src, err := sourceFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	name, _ := cmd.Flags().GetString("rescale16")
	rescale, err := convert.ParseRescale16(name)
	if err != nil {
		return nil, err
	}
	return &pipeline{
		reader:    memory.NewReader(src),
		converter: convert.Converter{Rescale16: rescale},
	}, nil
}

func sourceFromFlags(cmd *cobra.Command) (memory.Source, error) {
	path, _ := cmd.Flags().GetString("from-file")
	if path == "" {
		return memory.NewProcessSource(), nil
	}
	baseText, _ := cmd.Flags().GetString("base")
	base, err := memory.ParseAddress(baseText)
	if err != nil {
		return nil, fmt.Errorf("--base: %w", err)
	}
	return memory.FileSource{Path: path, Base: base}, nil
}

// grab reads and converts one image.
func (p *pipeline) grab(ctx context.Context, t session.Target) (*images.Image, error) {
	done := prof.StartOperation("read")
	raw, err := p.reader.ReadImage(ctx, t.PID, t.Address, t.Format, t.Width, t.Height)
	done()
	if err != nil {
		return nil, err
	}
	logger.Debug("read", "pid", t.PID, "address", memory.FormatAddress(t.Address), "bytes", len(raw))

	if logger.GetLevel() <= log.DebugLevel {
		if m, err := mat.FromRaw(raw, t.Format, t.Width, t.Height); err == nil {
			logger.Debug("raw buffer", "checksum", mat.Checksum(m))
			m.Close()
		}
	}

	done = prof.StartOperation("convert")
	c := p.converter
	c.Order = t.Order
	img, err := c.Convert(raw, t.Format, t.Width, t.Height)
	done()
	return img, err
}

// write saves img on the background saver and waits for it.
func write(ctx context.Context, img *images.Image, path string, enc codec.Encoder) error {
	task, err := saver.New(logger).Start(img, path, enc)
	if err != nil {
		return err
	}
	res, err := task.Wait(ctx)
	if err != nil {
		return err
	}
	prof.Record("save", res.Elapsed)
	return res.Err
}

func parseTarget(args []string, order pixfmt.ChannelOrder) (session.Target, error) {
	pid, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return session.Target{}, fmt.Errorf("pid %q: %w", args[0], err)
	}
	addr, err := memory.ParseAddress(args[1])
	if err != nil {
		return session.Target{}, err
	}
	width, err := strconv.Atoi(args[2])
	if err != nil || width < 0 {
		return session.Target{}, fmt.Errorf("width %q must be a non-negative integer", args[2])
	}
	height, err := strconv.Atoi(args[3])
	if err != nil || height < 0 {
		return session.Target{}, fmt.Errorf("height %q must be a non-negative integer", args[3])
	}
	format, err := pixfmt.ParseFormat(args[4])
	if err != nil {
		return session.Target{}, err
	}
	return session.Target{
		PID:     uint32(pid),
		Address: addr,
		Width:   width,
		Height:  height,
		Format:  format,
		Order:   order,
	}, nil
}

func runCapture(cmd *cobra.Command, args []string) error {
	orderText, _ := cmd.Flags().GetString("order")
	order, err := pixfmt.ParseChannelOrder(orderText)
	if err != nil {
		return err
	}
	target, err := parseTarget(args, order)
	if err != nil {
		return err
	}

	codecName, _ := cmd.Flags().GetString("codec")
	out, _ := cmd.Flags().GetString("out")
	var enc codec.Encoder
	if codecName != "" {
		if enc, err = resolveEncoder(codecName); err != nil {
			return err
		}
	} else {
		enc = codec.ForPath(out)
	}

	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	img, err := p.grab(cmd.Context(), target)
	if err != nil {
		return err
	}

	path := codec.WithExt(out, enc)
	if err := write(cmd.Context(), img, path, enc); err != nil {
		return err
	}
	logger.Info("image saved", "path", path, "format", target.Format, "size", fmt.Sprintf("%dx%d", target.Width, target.Height))

	if remember, _ := cmd.Flags().GetBool("remember"); remember {
		if err := rememberTarget(cmd, target); err != nil {
			return err
		}
	}
	reportTimings(cmd)
	return nil
}

func rememberTarget(cmd *cobra.Command, t session.Target) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	_, err = store.Update(func(c *session.Config) error {
		c.PID = t.PID
		c.Address = memory.FormatAddress(t.Address)
		c.Width, c.Height = t.Width, t.Height
		c.Format = t.Format
		c.Order = t.Order
		return nil
	})
	return err
}
