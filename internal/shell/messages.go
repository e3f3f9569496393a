package shell

// User-facing strings. The tool targets Turkish holidays, so prompts are Turkish.
const (
	menuText = "\n===== PublicHolidayTracker =====\n" +
		"1. Tatil listesini göster (yıl seç)\n" +
		"2. Tarihe göre tatil ara (GG-AA)\n" +
		"3. İsme göre tatil ara\n" +
		"4. Tüm tatilleri göster (2023–2025)\n" +
		"5. Çıkış\n"

	promptChoice = "Seçim: "
	promptYear   = "Yıl giriniz (2023–2025): "
	promptDate   = "Tarih (GG-AA): "
	promptName   = "Aranan isim: "

	msgInvalidChoice = "Geçersiz seçim."
	msgInvalidYear   = "Geçersiz yıl."
	msgYearEmpty     = "Bu yıl için tatil bulunamadı."
	msgBadDate       = "Format hatalı."
	msgNoDateMatch   = "Bu tarihte tatil yok."
	msgEmptyTerm     = "Boş olamaz."
	msgNoNameMatch   = "Eşleşme bulunamadı."
	msgNothingLoaded = "Tatil bulunamadı."

	headerYear   = "\n--- %d Tatilleri ---\n"
	headerDate   = "\n--- %s Tatilleri ---\n"
	headerSearch = "\n--- Arama Sonuçları (%s) ---\n"
	headerAll    = "\n--- 2023–2025 Tüm Tatiller ---\n"
)
