package link

import (
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"

	event_fetcher "github.com/alanbriolat/event-fetcher"
	"github.com/alanbriolat/event-fetcher/generic"
)

const (
	testDriveID   = "1jcN3IRYuRcLaact9vHhU1zNzEUdggAtD"
	testDropboxID = "xv5y8nncofb9yeh3h9brc"
)

func TestClassifyGoogleDrive(t *testing.T) {
	assert := assert_.New(t)
	expected := "https://drive.google.com/uc?export=download&id=" + testDriveID

	for _, raw := range []string{
		"https://drive.google.com/file/d/" + testDriveID + "/view?usp=sharing",
		"https://drive.google.com/file/d/" + testDriveID,
		"https://drive.google.com/file/d/" + testDriveID + "/",
		"https://drive.google.com/uc?export=download&id=" + testDriveID,
		"https://drive.google.com/open?id=" + testDriveID,
		"https://drive.usercontent.google.com/download?id=" + testDriveID + "&export=download",
		"https://drive.google.com/u/0/uc?id=" + testDriveID + "&export=download",
		"  " + testDriveID + "\n",
	} {
		d := Classify(raw)
		assert.Equal(KindGoogleDrive, d.Kind, raw)
		assert.Equal(generic.Some(testDriveID), d.ID, raw)
		assert.Equal(raw, d.Raw, raw)
		c := Canonicalize(d)
		assert.Equal(expected, c.URL(), raw)
	}
}

func TestClassifyGoogleDriveWithoutID(t *testing.T) {
	assert := assert_.New(t)
	// A recognised host with no recognisable ID shape is still an http(s) URL.
	d := Classify("https://drive.google.com/drive/folders")
	assert.Equal(KindDirect, d.Kind)
	_, err := DefaultRegistry.Match("https://drive.google.com/drive/folders")
	assert.NoError(err)
}

func TestClassifyDropbox(t *testing.T) {
	assert := assert_.New(t)
	expected := "https://www.dropbox.com/s/" + testDropboxID + "/file?dl=1"

	for _, raw := range []string{
		"https://www.dropbox.com/s/" + testDropboxID + "/entry.zip?dl=0",
		"https://dropbox.com/s/" + testDropboxID + "/entry.zip",
		"https://www.dropbox.com/scl/fi/" + testDropboxID + "/entry.zip?rlkey=abc&dl=0",
		"https://www.dropbox.com/scl/fo/" + testDropboxID + "/folder?rlkey=abc",
		"https://dl.dropboxusercontent.com/scl/fi/" + testDropboxID + "/entry.zip",
		"https://dl.dropboxusercontent.com/s/" + testDropboxID + "/entry.zip",
		testDropboxID,
	} {
		d := Classify(raw)
		assert.Equal(KindDropbox, d.Kind, raw)
		assert.Equal(generic.Some(testDropboxID), d.ID, raw)
		assert.Equal(expected, Canonicalize(d).URL(), raw)
	}
}

func TestClassifyHostedProviders(t *testing.T) {
	assert := assert_.New(t)

	cases := []struct {
		raw       string
		kind      Kind
		fetchable bool
	}{
		{"https://1drv.ms/u/s!AbCdEf123", KindOneDrive, true},
		{"https://onedrive.live.com/redir?resid=ABC", KindOneDrive, true},
		{"https://www.mediafire.com/file/abc123/entry.zip/file", KindMediaFire, true},
		{"https://mega.nz/file/AbCdEf#key", KindMega, false},
		{"https://mega.co.nz/#!AbCdEf!key", KindMega, false},
		{"https://example.com/files/entry.zip", KindDirect, true},
		{"http://example.com", KindDirect, true},
		// Host matching is by suffix on a domain boundary, not substring.
		{"https://notmega.nz/file/AbCdEf", KindDirect, true},
	}
	for _, c := range cases {
		candidate := Canonicalize(Classify(c.raw))
		assert.Equal(c.kind, candidate.Kind, c.raw)
		assert.Equal(c.fetchable, candidate.Fetchable(), c.raw)
		if c.fetchable && c.kind != KindGoogleDrive && c.kind != KindDropbox {
			assert.Equal(c.raw, candidate.URL(), c.raw)
		}
	}
}

func TestClassifyUnknown(t *testing.T) {
	assert := assert_.New(t)

	for _, raw := range []string{
		"",
		"   ",
		"password: hunter2",
		"パスワードは1234",
		"short",
		"ftp://example.com/entry.zip",
		"https://",
		"not a url but long enough to be something",
		"0123456789012345678901234567890123456789012345678901234567890",
	} {
		d := Classify(raw)
		assert.Equal(KindUnknown, d.Kind, raw)
		assert.Equal(raw, d.Raw)
		assert.True(d.ID.IsNone())
		c := Canonicalize(d)
		assert.False(c.Fetchable(), raw)
		assert.Equal("", c.URL())
	}
}

func TestCanonicalizeIsDeterministic(t *testing.T) {
	assert := assert_.New(t)
	for _, raw := range []string{
		"https://drive.google.com/file/d/" + testDriveID + "/view",
		testDropboxID,
		"https://example.com/a.zip",
		"https://mega.nz/file/x",
	} {
		d := Classify(raw)
		assert.Equal(Canonicalize(d), Canonicalize(d))
		assert.Equal(d, Classify(raw))
	}
}

func TestCanonicalizeMissingID(t *testing.T) {
	assert := assert_.New(t)
	assert.False(Canonicalize(Descriptor{Kind: KindGoogleDrive, Raw: "x"}).Fetchable())
	assert.False(Canonicalize(Descriptor{Kind: KindDropbox, Raw: "x"}).Fetchable())
}

func TestCandidateString(t *testing.T) {
	assert := assert_.New(t)
	assert.Equal("[Direct] https://example.com/a.zip", Canonicalize(Classify("https://example.com/a.zip")).String())
	assert.Equal("[Mega] https://mega.nz/file/x (not fetchable)", Canonicalize(Classify("https://mega.nz/file/x")).String())
	assert.Equal("GoogleDrive", KindGoogleDrive.String())
	assert.Equal("Kind(99)", Kind(99).String())
}

func TestBuildCandidates(t *testing.T) {
	assert := assert_.New(t)
	require := require_.New(t)

	entry := event_fetcher.Entry{
		Number: "7",
		Title:  "Entry",
		Links: []string{
			"https://mega.nz/file/x",
			"https://drive.google.com/file/d/" + testDriveID + "/view",
			"password: 1234",
			"https://example.com/a.zip",
		},
	}

	candidates, ok := BuildCandidates(entry, event_fetcher.ParseEntryFilter(""))
	require.True(ok)
	require.Len(candidates, 4)
	assert.Equal(KindMega, candidates[0].Kind)
	assert.Equal(KindGoogleDrive, candidates[1].Kind)
	assert.Equal(KindUnknown, candidates[2].Kind)
	assert.Equal(KindDirect, candidates[3].Kind)

	fetchable := Fetchable(candidates)
	require.Len(fetchable, 2)
	assert.Equal(KindGoogleDrive, fetchable[0].Kind)
	assert.Equal(KindDirect, fetchable[1].Kind)
	assert.Len(Unfetchable(candidates), 2)

	candidates, ok = BuildCandidates(entry, event_fetcher.ParseEntryFilter("1,2"))
	assert.False(ok)
	assert.Empty(candidates)

	candidates, ok = BuildCandidates(entry, event_fetcher.ParseEntryFilter("7"))
	assert.True(ok)
	assert.Len(candidates, 4)

	candidates, ok = BuildCandidates(event_fetcher.Entry{Number: "8"}, event_fetcher.EntryFilter{})
	assert.True(ok)
	assert.Empty(candidates)
	assert.Empty(Fetchable(candidates))
}
