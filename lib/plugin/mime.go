package plugin

import (
	"bytes"
	"encoding/binary"
	"net/http"
	"slices"
	"strings"
)

// Filesystem images are unpacked before analysis; their members arrive as objects of their own.
//
//nolint:gochecknoglobals // Magic table
var filesystemMagic = []struct {
	offset int
	magic  []byte
	mime   string
	// check further validates a magic hit. Nil accepts it.
	check func(data []byte) bool
}{
	{0, []byte("hsqs"), "filesystem/squashfs", nil},
	{0, []byte("sqsh"), "filesystem/squashfs", nil},
	{0, []byte{0x45, 0x3d, 0xcd, 0x28}, "filesystem/cramfs", nil},
	{0, []byte{0x28, 0xcd, 0x3d, 0x45}, "filesystem/cramfs", nil},
	{0, []byte("-rom1fs-"), "filesystem/romfs", nil},
	{0, []byte{0x85, 0x19}, "filesystem/jffs2", jffs2Node(binary.LittleEndian)},
	{0, []byte{0x19, 0x85}, "filesystem/jffs2", jffs2Node(binary.BigEndian)},
	{0, []byte("UBI#"), "filesystem/ubi", nil},
	{1080, []byte{0x53, 0xef}, "filesystem/ext2", nil},
}

// JFFS2 node types: dirent, inode, clean marker, padding, summary, xattr, xref.
//
//nolint:gochecknoglobals // Lookup table
var jffs2NodeTypes = []uint16{0xe001, 0xe002, 0x2003, 0x2004, 0x2006, 0xe008, 0xe009}

// jffs2Node accepts data whose first node header carries a known node type after the two byte magic.
func jffs2Node(order binary.ByteOrder) func(data []byte) bool {
	return func(data []byte) bool {
		return len(data) >= 4 && slices.Contains(jffs2NodeTypes, order.Uint16(data[2:4]))
	}
}

// sniffMIME returns the MIME type of data.
func sniffMIME(data []byte) string {
	for _, m := range filesystemMagic {
		if len(data) < m.offset+len(m.magic) || !bytes.Equal(data[m.offset:m.offset+len(m.magic)], m.magic) {
			continue
		}

		if m.check == nil || m.check(data) {
			return m.mime
		}
	}

	return http.DetectContentType(data)
}

// blacklisted reports whether objects of mimeType are skipped.
func blacklisted(mimeType string) bool {
	major, _, _ := strings.Cut(mimeType, "/")

	return slices.Contains(MIMEBlacklist, major)
}
