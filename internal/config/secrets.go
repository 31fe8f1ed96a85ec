package config

import "maps"

// RedactedConfig returns a copy of cfg with secrets replaced by "***", for
// logging the active configuration.
func RedactedConfig(cfg *Config) Config {
	out := *cfg

	redact(&out.Kalshi.APIKey)
	redact(&out.Kalshi.RSAKeyPassword)
	redact(&out.Postgres.DSN)
	redact(&out.Postgres.Password)
	redact(&out.Redis.Password)
	redact(&out.S3.AccessKey)
	redact(&out.S3.SecretKey)
	redact(&out.Server.APIKey)
	redact(&out.Notify.TelegramToken)
	redact(&out.Notify.DiscordWebhookURL)

	// Detach reference types so the copy cannot mutate the original.
	out.Scanner.Sports = append([]string(nil), cfg.Scanner.Sports...)
	out.Kafka.Brokers = append([]string(nil), cfg.Kafka.Brokers...)
	out.Server.CORSOrigins = append([]string(nil), cfg.Server.CORSOrigins...)
	out.Notify.Events = append([]string(nil), cfg.Notify.Events...)
	out.Polymarket.Tags = maps.Clone(cfg.Polymarket.Tags)
	if cfg.Kalshi.Series != nil {
		out.Kalshi.Series = make(map[string][]string, len(cfg.Kalshi.Series))
		for k, v := range cfg.Kalshi.Series {
			out.Kalshi.Series[k] = append([]string(nil), v...)
		}
	}

	return out
}

const redacted = "***"

func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
