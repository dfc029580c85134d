package messages

// Verdict reason tags consumed by the action dispatcher and the audit log.
const (
	ReasonFlood        = "flood"
	ReasonLink         = "link"
	ReasonRepeat       = "repeat"
	ReasonStickerLimit = "sticker_limit"
	ReasonStickerBan   = "sticker_ban"
	ReasonGifLimit     = "gif_limit"
	ReasonGifBan       = "gif_ban"
	ReasonAlbumLink    = "album_link"
)

// User-facing replies.
const (
	MsgNoRights          = "⛔ Недостаточно прав."
	MsgCannotModerate    = "⛔ Нельзя применить действие к этому пользователю."
	MsgBadDuration       = "Некорректное время. Пример: 10m, 2h, 1d, 2ч30м"
	MsgBadAutoMuteRange  = "Некорректное время (30с…86400с)."
	MsgBadRole           = "Роли: seeker | moderator | admin | head_admin | creator"
	MsgCreatorRoleOnly   = "Только Создатель чата может назначать роль creator."
	MsgBadSettingField   = "Неизвестный параметр настройки."
	MsgTargetNotFound    = "Не удалось определить пользователя: ответь (reply) на сообщение, либо укажи @username или id."
	MsgRulesNotSet       = "Правила ещё не настроены."
	MsgRulesUpdated      = "✅ Правила обновлены."
	MsgLogChannelSet     = "✅ Форум-лог установлен для этого чата."
	MsgWhitelistEmpty    = "Whitelist пуст."
	MsgInviteFailed      = "Не удалось создать ссылку (нет прав у бота)."
	MsgMuteFailed        = "Не удалось замутить (нет прав у бота или пользователь админ)."
	MsgUnmuteFailed      = "Не удалось размутить (нет прав у бота или пользователь админ)."
	MsgBanFailed         = "Не удалось забанить (нет прав у бота или пользователь админ)."
	MsgUnbanFailed       = "Не удалось разбанить (нет прав у бота)."
	MsgKickFailed        = "Не удалось кикнуть (нет прав у бота или пользователь админ)."
	MsgMoveFailed        = "❌ Не удалось отправить в основную (проверь права бота в основной группе)."
	MsgTestChatOnly      = "⛔ Эта команда работает только в тестовой группе."
	MsgChatsUnconfigured = "⚠️ TEST_CHAT_ID / MAIN_CHAT_ID не настроены."
	MsgGroupsOnly        = "Команда работает в группах/супергруппах."
)
