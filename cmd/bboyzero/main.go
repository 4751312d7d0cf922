package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "bboyzero",
	Short:   "Public site gateway for the BBOY ZERO site",
	Long: `bboyzero serves the site's static assets and a small JSON API that
proxies events and contact messages to a Supabase backend, keeping the
service-role credential strictly server-side.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		readConfig(cmd)
		setupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("static-root", "", "static asset directory (default: ./public, env: BBOY_STATIC_ROOT)")
	rootCmd.PersistentFlags().String("supabase-url", "", "Supabase project URL (env: BBOY_SUPABASE_URL)")
	rootCmd.PersistentFlags().String("bucket", "", "storage bucket for event images (default: event-images, env: BBOY_SUPABASE_BUCKET)")

	_ = viper.BindPFlag("static.root", rootCmd.PersistentFlags().Lookup("static-root"))
	_ = viper.BindPFlag("supabase.url", rootCmd.PersistentFlags().Lookup("supabase-url"))
	_ = viper.BindPFlag("supabase.bucket", rootCmd.PersistentFlags().Lookup("bucket"))
}

func main() {
	// .env values never override variables already set in the environment
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
