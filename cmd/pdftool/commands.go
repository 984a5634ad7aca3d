package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	pdfPkg "pdf_toolkit/pdf"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	organizeOrder   string
	organizeRotate  []string
	organizeReverse bool
	compressLevel   int
	wmFontSize      int
	wmOpacity       float64
)

var infoCmd = &cobra.Command{
	Use:   "info <input.pdf>",
	Short: "Print the page count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pages\n", args[0], doc.PageCount())
		return nil
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge <a.pdf> <b.pdf> [more.pdf...]",
	Short: "Concatenate PDFs in argument order",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := make([][]byte, len(args))
		var g errgroup.Group
		for i, path := range args {
			g.Go(func() error {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				inputs[i] = data
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		content, err := pdfPkg.MergeDocuments(inputs)
		if err != nil {
			return err
		}
		return writeOutput("merged.pdf", content)
	},
}

var organizeCmd = &cobra.Command{
	Use:   "organize <input.pdf>",
	Short: "Reorder, drop and rotate pages",
	Long: `Write the pages of a PDF in a new order.

  pdftool organize in.pdf --order 3,1,2        pages 3, 1, 2 (others dropped)
  pdftool organize in.pdf --reverse            last page first
  pdftool organize in.pdf --rotate 2:90        rotate page 2 clockwise`,
	Args: cobra.ExactArgs(1),
	RunE: runOrganize,
}

var compressCmd = &cobra.Command{
	Use:   "compress <input.pdf>",
	Short: "Optimize a PDF (level 1 extreme, 2 recommended, 3 minimal)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := pdfPkg.ParseCompressionLevel(compressLevel)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		result, err := pdfPkg.Compress(data, level, password)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"original_size":   result.OriginalSize,
			"compressed_size": result.CompressedSize,
		}).Infof("Reduced by %.1f%%", result.Reduction())
		return writeOutput(pdfPkg.BaseName(args[0])+"_compressed_"+level.String()+".pdf", result.Content)
	},
}

var watermarkCmd = &cobra.Command{
	Use:   "watermark <input.pdf> <text>",
	Short: "Stamp text on every page",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		opts := pdfPkg.DefaultWatermarkOptions(args[1])
		opts.FontSize = wmFontSize
		opts.Opacity = wmOpacity
		content, err := pdfPkg.AddWatermark(data, opts, password)
		if err != nil {
			return err
		}
		return writeOutput(pdfPkg.BaseName(args[0])+"_watermarked.pdf", content)
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock <input.pdf>",
	Short: "Remove the password from a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		content, err := pdfPkg.Unlock(data, password)
		if err != nil {
			return err
		}
		return writeOutput(pdfPkg.BaseName(args[0])+"_unlocked.pdf", content)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd, mergeCmd, organizeCmd, compressCmd, watermarkCmd, unlockCmd)

	organizeCmd.Flags().StringVar(&organizeOrder, "order", "", "New page order, 1-based (e.g. 3,1,2)")
	organizeCmd.Flags().BoolVar(&organizeReverse, "reverse", false, "Sort pages descending")
	organizeCmd.Flags().StringSliceVar(&organizeRotate, "rotate", nil, "page:degrees, repeatable (e.g. 2:90)")

	compressCmd.Flags().IntVarP(&compressLevel, "level", "l", int(pdfPkg.CompressionRecommended), "Compression level 1-3")

	watermarkCmd.Flags().IntVar(&wmFontSize, "font-size", pdfPkg.DefaultWatermarkFontSize, "Font size in points")
	watermarkCmd.Flags().Float64Var(&wmOpacity, "opacity", pdfPkg.DefaultWatermarkOpacity, "Opacity between 0 and 1")
}

func runOrganize(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	order, err := buildOrder(doc.PageCount(), organizeOrder, organizeReverse, organizeRotate)
	if err != nil {
		return err
	}

	content, err := pdfPkg.Reorganize(doc, order)
	if err != nil {
		return err
	}
	return writeOutput(pdfPkg.BaseName(args[0])+"_organized.pdf", content)
}

// buildOrder drives a PageOrder from the organize flags. orderSpec lists
// 1-based pages; each listed page is moved into the next slot and the
// pages left over are removed.
func buildOrder(pageCount int, orderSpec string, reverse bool, rotations []string) (*pdfPkg.PageOrder, error) {
	order := pdfPkg.NewPageOrder(pageCount)

	if strings.TrimSpace(orderSpec) != "" {
		for slot, field := range strings.Split(orderSpec, ",") {
			page, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil || page < 1 || page > pageCount {
				return nil, &pdfPkg.ParseError{Expr: orderSpec, Token: field, PageCount: pageCount, Reason: "invalid page number"}
			}
			from := -1
			for s := slot; s < order.Len(); s++ {
				if p, _ := order.PageAt(s); p == page-1 {
					from = s
					break
				}
			}
			if from < 0 {
				return nil, &pdfPkg.ParseError{Expr: orderSpec, Token: field, PageCount: pageCount, Reason: "page listed twice"}
			}
			if err := order.MoveSlot(from, slot); err != nil {
				return nil, err
			}
		}
		for order.Len() > len(strings.Split(orderSpec, ",")) {
			if err := order.RemoveSlot(order.Len() - 1); err != nil {
				return nil, err
			}
		}
	}

	if reverse {
		order.SortDescending()
	}

	for _, spec := range rotations {
		pageStr, degStr, ok := strings.Cut(spec, ":")
		page, perr := strconv.Atoi(pageStr)
		deg, derr := strconv.Atoi(degStr)
		if !ok || perr != nil || derr != nil {
			return nil, fmt.Errorf("invalid rotation %q (expected page:degrees)", spec)
		}
		if err := order.SetRotation(page-1, deg); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func loadDocument(path string) (*pdfPkg.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return pdfPkg.LoadDocument(data, password)
}

func writeOutput(defaultName string, content []byte) error {
	path := output
	if path == "" {
		path = defaultName
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.WithField("file", path).Infof("Wrote %d bytes", len(content))
	return nil
}
