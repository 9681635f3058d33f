package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/wapi/internal/app"
	"github.com/MrSnakeDoc/wapi/internal/qr"
	"github.com/MrSnakeDoc/wapi/internal/utils"
)

var (
	qrOut  string
	qrSize int
)

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Fetch the pairing QR code and save it as a PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		client, err := app.NewClient(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		raw, err := client.QRCode(cmd.Context())
		if err != nil {
			return err
		}
		img, err := qr.PNG(raw, qrSize)
		if err != nil {
			return err
		}

		f, err := os.Create(qrOut)
		if err != nil {
			return err
		}
		defer utils.MustClose(f, log)

		if _, err := f.Write(img); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "QR code written to %s\n", qrOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(qrCmd)
	qrCmd.Flags().StringVarP(&qrOut, "out", "o", "qrcode.png", "output file")
	qrCmd.Flags().IntVar(&qrSize, "size", qr.DefaultSize, "image size in pixels")
}
