package download

// Package download implements the acquire stage on top of yt-dlp (via
// github.com/lrstanley/go-ytdlp): best-audio selection, audio-only extraction
// to WAV, one retry with backoff, and typed failures carrying yt-dlp's exit
// code and stderr.
