package handler

const (
	textDownloading = "Downloading..."
	textUploading   = "Uploading..."
	textFailed      = "Sorry, an error occurred. Please check the URL and try again."

	textStartBody = "!\n\n" +
		"I'm your personal video downloader bot.\n" +
		"Just send me a link to a video from a supported platform " +
		"(like YouTube, Instagram, TikTok, etc.), and I'll download it and send it back to you."

	fallbackName = "there"
)
