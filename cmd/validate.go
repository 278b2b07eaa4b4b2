package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/admissions-eligibility/internal/catalog"
	"github.com/spigell/admissions-eligibility/internal/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the course requirements of a catalog file",
	Run: func(cmd *cobra.Command, _ []string) {
		validate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validate(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	path := strings.TrimSpace(config.Catalog)
	if path == "" {
		logger.Fatal("catalog is required", zap.String("hint", "set --catalog or ELIGIBILITY_CATALOG"))
	}

	c, err := catalog.Load(path)
	if err != nil {
		logger.Fatal("loading the catalog", zap.String("path", path), zap.Error(err))
	}

	out := cmd.OutOrStdout()
	for _, course := range c.Courses() {
		if course.Err != nil {
			fmt.Fprintf(out, "%s: invalid: %s\n", course.ID, course.Err)
			continue
		}
		fmt.Fprintf(out, "%s: ok\n", course.ID)
	}

	if err := c.Validate(); err != nil {
		logger.Fatal("catalog has invalid courses", zap.Error(err))
	}

	logger.Info("catalog is valid", zap.String("path", path), zap.Int("courses", len(c.Courses())))
}
