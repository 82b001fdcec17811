package settings

type UpsertGuildSettingsInput struct {
	GuildID             string
	RestrictedChannelID string
}

type GetGuildSettingsInput struct {
	GuildID string
}
