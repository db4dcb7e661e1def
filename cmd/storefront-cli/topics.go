package main

import (
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/bootstrap"
	"github.com/spf13/cobra"
)

var (
	topicPartitions  int
	topicReplication int
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage kafka topics",
}

var topicsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the catalog and dead letter topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Kafka.Enabled {
			return fmt.Errorf("kafka is disabled")
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		client, err := bootstrap.NewKafka(cfg, logger)
		if err != nil {
			return err
		}
		defer client.Close()

		for _, topic := range []string{cfg.Kafka.CatalogTopic, cfg.Kafka.DeadLetterTopic} {
			if topic == "" {
				continue
			}
			if err := client.CreateTopic(ctx, topic, topicPartitions, topicReplication); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "topic %s ready\n", topic)
		}
		return nil
	},
}

func init() {
	topicsCreateCmd.Flags().IntVar(&topicPartitions, "partitions", 6, "Number of partitions")
	topicsCreateCmd.Flags().IntVar(&topicReplication, "replication", 1, "Replication factor")
}
