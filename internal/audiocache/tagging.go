package audiocache

import (
	"fmt"
	"strconv"

	"github.com/bogem/id3v2/v2"
)

// Metadata is written into an artifact copied into the output directory.
type Metadata struct {
	Lyrics string
	Title  string
	Album  string
	Artist string
	Track  int
}

// Tagger writes metadata into an audio file.
type Tagger interface {
	Tag(path string, meta Metadata) error
}

// ID3Tagger writes ID3v2.4 frames.
type ID3Tagger struct{}

// Tag implements Tagger.
func (ID3Tagger) Tag(path string, meta Metadata) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3 tag: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetVersion(4)
	if meta.Title != "" {
		tag.SetTitle(meta.Title)
	}
	if meta.Album != "" {
		tag.SetAlbum(meta.Album)
	}
	if meta.Artist != "" {
		tag.SetArtist(meta.Artist)
	}
	if meta.Track > 0 {
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), id3v2.EncodingUTF8, strconv.Itoa(meta.Track))
	}
	if meta.Lyrics != "" {
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "vie",
			ContentDescriptor: "",
			Lyrics:            meta.Lyrics,
		})
	}
	if err := tag.Save(); err != nil {
		return fmt.Errorf("save id3 tag: %w", err)
	}
	return nil
}
