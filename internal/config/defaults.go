package config

import "github.com/spf13/viper"

const defaultSystemInstruction = `Anda adalah AI assistant ahli saham dan investasi Indonesia. Berikan jawaban yang:

1. Fokus pada saham Indonesia dan Bursa Efek Indonesia (BEI)
2. Berikan informasi edukasi investasi yang baik
3. Selalu ingatkan bahwa ini bukan nasihat investasi pribadi
4. Gunakan bahasa Indonesia yang mudah dipahami
5. Berikan contoh konkret jika relevan
6. Maksimal 500 kata per jawaban

PENTING: Selalu tambahkan disclaimer bahwa ini hanya informasi edukasi, bukan nasihat investasi.`

const defaultHelpMessage = `❓ *BANTUAN*

*Cara menggunakan:*
• /start - Mulai menggunakan bot
• /ask [pertanyaan] - Tanya AI tentang saham/investasi
• /stock KODE - Cari saham tertentu
• /watch KODE - Tambah saham ke watchlist
• /unwatch KODE - Hapus saham dari watchlist
• /watchlist - Lihat watchlist Anda
• Atau ketik kode saham langsung

*Contoh:*
• /ask Apa itu saham?
• /stock BBCA
• Ketik: GOTO

⚠️ Bot memberikan informasi edukasi, bukan nasihat investasi`

// defaultPopularSymbols lists liquid IDX tickers shown in the popular
// stocks menu when the config does not override them.
var defaultPopularSymbols = map[string]string{
	"BBCA.JK": "Bank Central Asia",
	"BBRI.JK": "Bank Rakyat Indonesia",
	"BMRI.JK": "Bank Mandiri",
	"TLKM.JK": "Telkom Indonesia",
	"ASII.JK": "Astra International",
	"UNVR.JK": "Unilever Indonesia",
	"ICBP.JK": "Indofood CBP",
	"KLBF.JK": "Kalbe Farma",
	"GGRM.JK": "Gudang Garam",
	"INDF.JK": "Indofood Sukses Makmur",
	"GOTO.JK": "GoTo Gojek Tokopedia",
	"BUKA.JK": "Bukalapak",
}

// setDefaults registers default values for all optional configuration
// parameters. Credentials intentionally default to empty strings so the
// BOT_TELEGRAM_TOKEN and BOT_GEMINI_API_KEY environment bindings resolve,
// leaving presence enforcement to validation.
func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.json", false)

	viper.SetDefault("telegram.token", "")
	viper.SetDefault("telegram.bot_name", "AkademikSaham_AIbot")
	viper.SetDefault("telegram.drop_pending_updates", true)

	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model_name", "gemini-2.0-flash")
	viper.SetDefault("gemini.temperature", 0.7)
	viper.SetDefault("gemini.max_output_tokens", 500)
	viper.SetDefault("gemini.system_instruction", defaultSystemInstruction)
	viper.SetDefault("gemini.max_retries", 2)
	viper.SetDefault("gemini.retry_delay_seconds", 2)
	viper.SetDefault("gemini.max_history", 20)

	viper.SetDefault("market.base_url", "https://query1.finance.yahoo.com")
	viper.SetDefault("market.timeout", "30s")
	viper.SetDefault("market.cache_ttl", "5m")
	viper.SetDefault("market.exchange_suffix", ".JK")
	viper.SetDefault("market.index_symbol", "^JKSE")
	viper.SetDefault("market.index_name", "Indeks Harga Saham Gabungan")
	viper.SetDefault("market.max_retries", 2)
	viper.SetDefault("market.popular_symbols", defaultPopularSymbols)

	viper.SetDefault("database.path", "storage.db")
	viper.SetDefault("database.message_retention_days", 30)

	viper.SetDefault("server.enabled", true)
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("scheduler.tasks.quote_refresh.enabled", true)
	viper.SetDefault("scheduler.tasks.quote_refresh.schedule", "*/10 9-16 * * 1-5")
	viper.SetDefault("scheduler.tasks.message_cleanup.enabled", true)
	viper.SetDefault("scheduler.tasks.message_cleanup.schedule", "0 3 * * *")
	viper.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	viper.SetDefault("scheduler.tasks.sql_maintenance.schedule", "30 3 * * 0")

	viper.SetDefault("messages.welcome", "🎉 Selamat datang di @botname, {name}!\n\n📱 *Menu tersedia:*\n• /ask [pertanyaan] - Tanya AI tentang saham/investasi\n• /stock KODE - Cari saham tertentu\n• Atau pilih tombol di bawah\n• Atau ketik langsung kode saham\n\n💡 *Contoh:*\n• /ask Apa itu saham?\n• /stock BBCA\n• Ketik: GOTO")
	viper.SetDefault("messages.help", defaultHelpMessage)
	viper.SetDefault("messages.ask_usage", "🤖 *AI Assistant - Tanya Apapun tentang Saham & Investasi*\n\n*Format:* /ask [pertanyaan Anda]\n\n*Contoh pertanyaan:*\n• /ask Apa itu saham?\n• /ask Bagaimana cara memulai investasi?\n• /ask Perbedaan saham dan obligasi?\n• /ask Tips investasi untuk pemula?\n\n💡 AI akan menjawab dengan fokus pada pasar saham Indonesia")
	viper.SetDefault("messages.stock_usage", "📊 *Pencarian Saham*\n\n*Format:* /stock [KODE_SAHAM]\n\n*Contoh:*\n• /stock BBCA - Info Bank BCA\n• /stock GOTO - Info GoTo\n• /stock TLKM - Info Telkom\n\n💡 Atau langsung ketik kode saham tanpa command")
	viper.SetDefault("messages.stock_loading", "⏳ Mencari data saham...")
	viper.SetDefault("messages.stock_not_found", "❌ Saham *%s* tidak ditemukan")
	viper.SetDefault("messages.watch_usage", "👁 *Watchlist*\n\n*Format:*\n• /watch KODE - Tambah saham\n• /unwatch KODE - Hapus saham\n• /watchlist - Lihat daftar Anda")
	viper.SetDefault("messages.watch_added", "✅ *%s* ditambahkan ke watchlist Anda")
	viper.SetDefault("messages.watch_removed", "🗑 *%s* dihapus dari watchlist Anda")
	viper.SetDefault("messages.watch_empty", "📭 Watchlist Anda masih kosong.\n\nGunakan /watch KODE untuk menambah saham.")
	viper.SetDefault("messages.ai_disclaimer", "💡 _Ini hanya informasi edukasi, bukan nasihat investasi_")
	viper.SetDefault("messages.ai_unavailable", "❌ Maaf, AI Assistant sedang bermasalah. Coba lagi nanti.")
	viper.SetDefault("messages.general_error", "❌ Error, silakan coba lagi")
	viper.SetDefault("messages.text_hint", "💬 *Pesan Anda:* \"%s\"\n\n🤔 Sepertinya Anda ingin bertanya. Gunakan format:\n/ask %s\n\nAtau ketik kode saham (contoh: BBCA, GOTO)")
}
