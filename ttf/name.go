package ttf

import (
	"sort"
	"strconv"
)

// Platform identifiers shared by the name and cmap tables.
const (
	platformUnicode   = 0
	platformMacintosh = 1
	platformISO       = 2
	platformWindows   = 3
	platformCustom    = 4
)

const windowsUnicodeBMPEncodingID = 1

// platformID renders a platform identifier by name.
type platformID uint16

func (v *platformID) parse(b []byte) { *v = platformID(be16(b)) }
func (v platformID) width() uint32   { return 2 }
func (v platformID) typeName() string { return TypePlatform }
func (v platformID) render() string {
	switch uint16(v) {
	case platformUnicode:
		return "Unicode"
	case platformMacintosh:
		return "Macintosh"
	case platformISO:
		return "ISO"
	case platformWindows:
		return "Windows"
	default:
		return "Custom"
	}
}

func unicodeEncodingName(id uint16) string {
	switch id {
	case 0:
		return "Unicode 1.0"
	case 1:
		return "Unicode 1.1"
	case 2:
		return "ISO/IEC 10646"
	case 3:
		return "Unicode 2.0 BMP"
	case 4:
		return "Unicode 2.0 full repertoire"
	case 5:
		return "Unicode Variation Sequences"
	case 6:
		return "Unicode full repertoire"
	default:
		return "Unknown"
	}
}

func winEncodingName(id uint16) string {
	switch id {
	case 0:
		return "Symbol"
	case 1:
		return "Unicode BMP"
	case 2:
		return "ShiftJIS"
	case 3:
		return "PRC"
	case 4:
		return "Big5"
	case 5:
		return "Wansung"
	case 6:
		return "Johab"
	case 7, 8, 9:
		return "Reserved"
	case 10:
		return "Unicode full repertoire"
	default:
		return "Unknown"
	}
}

var macEncodingNames = []string{
	"Roman",
	"Japanese",
	"Chinese (Traditional)",
	"Korean",
	"Arabic",
	"Hebrew",
	"Greek",
	"Russian",
	"RSymbol",
	"Devanagari",
	"Gurmukhi",
	"Gujarati",
	"Oriya",
	"Bengali",
	"Tamil",
	"Telugu",
	"Kannada",
	"Malayalam",
	"Sinhalese",
	"Burmese",
	"Khmer",
	"Thai",
	"Laotian",
	"Georgian",
	"Armenian",
	"Chinese (Simplified)",
	"Tibetan",
	"Mongolian",
	"Geez",
	"Slavic",
	"Vietnamese",
	"Sindhi",
	"Uninterpreted",
}

func macEncodingName(id uint16) string {
	if int(id) < len(macEncodingNames) {
		return macEncodingNames[id]
	}
	return "Unknown"
}

func isoEncodingName(id uint16) string {
	switch id {
	case 0:
		return "7-bit ASCII"
	case 1:
		return "ISO 10646"
	case 2:
		return "ISO 8859-1"
	default:
		return "Unknown"
	}
}

func encodingName(platform platformID, id uint16) string {
	switch uint16(platform) {
	case platformUnicode:
		return unicodeEncodingName(id)
	case platformMacintosh:
		return macEncodingName(id)
	case platformISO:
		return isoEncodingName(id)
	case platformWindows:
		return winEncodingName(id)
	default:
		return strconv.FormatUint(uint64(id), 10)
	}
}

// winLanguageNames maps Windows language identifiers to readable names.
// https://docs.microsoft.com/en-us/typography/opentype/spec/name#windows-language-ids
var winLanguageNames = map[uint16]string{
	0x0436: "Afrikaans, South Africa",
	0x041C: "Albanian, Albania",
	0x0484: "Alsatian, France",
	0x045E: "Amharic, Ethiopia",
	0x1401: "Arabic, Algeria",
	0x3C01: "Arabic, Bahrain",
	0x0C01: "Arabic, Egypt",
	0x0801: "Arabic, Iraq",
	0x2C01: "Arabic, Jordan",
	0x3401: "Arabic, Kuwait",
	0x3001: "Arabic, Lebanon",
	0x1001: "Arabic, Libya",
	0x1801: "Arabic, Morocco",
	0x2001: "Arabic, Oman",
	0x4001: "Arabic, Qatar",
	0x0401: "Arabic, Saudi Arabia",
	0x2801: "Arabic, Syria",
	0x1C01: "Arabic, Tunisia",
	0x3801: "Arabic, U.A.E.",
	0x2401: "Arabic, Yemen",
	0x042B: "Armenian, Armenia",
	0x044D: "Assamese, India",
	0x082C: "Azeri (Cyrillic), Azerbaijan",
	0x042C: "Azeri (Latin), Azerbaijan",
	0x046D: "Bashkir, Russia",
	0x042D: "Basque, Basque",
	0x0423: "Belarusian, Belarus",
	0x0845: "Bengali, Bangladesh",
	0x0445: "Bengali, India",
	0x201A: "Bosnian (Cyrillic), Bosnia and Herzegovina",
	0x141A: "Bosnian (Latin), Bosnia and Herzegovina",
	0x047E: "Breton, France",
	0x0402: "Bulgarian, Bulgaria",
	0x0403: "Catalan, Catalan",
	0x0C04: "Chinese, Hong Kong S.A.R.",
	0x1404: "Chinese, Macao S.A.R.",
	0x0804: "Chinese, People's Republic of China",
	0x1004: "Chinese, Singapore",
	0x0404: "Chinese, Taiwan",
	0x0483: "Corsican, France",
	0x041A: "Croatian, Croatia",
	0x101A: "Croatian (Latin), Bosnia and Herzegovina",
	0x0405: "Czech, Czech Republic",
	0x0406: "Danish, Denmark",
	0x048C: "Dari, Afghanistan",
	0x0465: "Divehi, Maldives",
	0x0813: "Dutch, Belgium",
	0x0413: "Dutch, Netherlands",
	0x0C09: "English, Australia",
	0x2809: "English, Belize",
	0x1009: "English, Canada",
	0x2409: "English, Caribbean",
	0x4009: "English, India",
	0x1809: "English, Ireland",
	0x2009: "English, Jamaica",
	0x4409: "English, Malaysia",
	0x1409: "English, New Zealand",
	0x3409: "English, Republic of the Philippines",
	0x4809: "English, Singapore",
	0x1C09: "English, South Africa",
	0x2C09: "English, Trinidad and Tobago",
	0x0809: "English, United Kingdom",
	0x0409: "English, United States",
	0x3009: "English, Zimbabwe",
	0x0425: "Estonian, Estonia",
	0x0438: "Faroese, Faroe Islands",
	0x0464: "Filipino, Philippines",
	0x040B: "Finnish, Finland",
	0x080C: "French, Belgium",
	0x0C0C: "French, Canada",
	0x040C: "French, France",
	0x140C: "French, Luxembourg",
	0x180C: "French, Principality of Monaco",
	0x100C: "French, Switzerland",
	0x0462: "Frisian, Netherlands",
	0x0456: "Galician, Galician",
	0x0437: "Georgian, Georgia",
	0x0C07: "German, Austria",
	0x0407: "German, Germany",
	0x1407: "German, Liechtenstein",
	0x1007: "German, Luxembourg",
	0x0807: "German, Switzerland",
	0x0408: "Greek, Greece",
	0x046F: "Greenlandic, Greenland",
	0x0447: "Gujarati, India",
	0x0468: "Hausa (Latin), Nigeria",
	0x040D: "Hebrew, Israel",
	0x0439: "Hindi, India",
	0x040E: "Hungarian, Hungary",
	0x040F: "Icelandic, Iceland",
	0x0470: "Igbo, Nigeria",
	0x0421: "Indonesian, Indonesia",
	0x045D: "Inuktitut, Canada",
	0x085D: "Inuktitut (Latin), Canada",
	0x083C: "Irish, Ireland",
	0x0434: "isiXhosa, South Africa",
	0x0435: "isiZulu, South Africa",
	0x0410: "Italian, Italy",
	0x0810: "Italian, Switzerland",
	0x0411: "Japanese, Japan",
	0x044B: "Kannada, India",
	0x043F: "Kazakh, Kazakhstan",
	0x0453: "Khmer, Cambodia",
	0x0486: "K'iche, Guatemala",
	0x0487: "Kinyarwanda, Rwanda",
	0x0441: "Kiswahili, Kenya",
	0x0457: "Konkani, India",
	0x0412: "Korean, Korea",
	0x0440: "Kyrgyz, Kyrgyzstan",
	0x0454: "Lao, Lao P.D.R.",
	0x0426: "Latvian, Latvia",
	0x0427: "Lithuanian, Lithuania",
	0x082E: "Lower, Sorbian Germany",
	0x046E: "Luxembourgish, Luxembourg",
	0x042F: "Macedonian (FYROM), Former Yugoslav Republic of Macedonia",
	0x083E: "Malay, Brunei Darussalam",
	0x043E: "Malay, Malaysia",
	0x044C: "Malayalam, India",
	0x043A: "Maltese, Malta",
	0x0481: "Maori, New Zealand",
	0x047A: "Mapudungun, Chile",
	0x044E: "Marathi, India",
	0x047C: "Mohawk, Mohawk",
	0x0450: "Mongolian (Cyrillic), Mongolia",
	0x0850: "Mongolian (Traditional), People's Republic of China",
	0x0461: "Nepali, Nepal",
	0x0414: "Norwegian (Bokmal), Norway",
	0x0814: "Norwegian (Nynorsk), Norway",
	0x0482: "Occitan, France",
	0x0448: "Odia (formerly Oriya), India",
	0x0463: "Pashto, Afghanistan",
	0x0415: "Polish, Poland",
	0x0416: "Portuguese, Brazil",
	0x0816: "Portuguese, Portugal",
	0x0446: "Punjabi, India",
	0x046B: "Quechua, Bolivia",
	0x086B: "Quechua, Ecuador",
	0x0C6B: "Quechua, Peru",
	0x0418: "Romanian, Romania",
	0x0417: "Romansh, Switzerland",
	0x0419: "Russian, Russia",
	0x243B: "Sami (Inari), Finland",
	0x103B: "Sami (Lule), Norway",
	0x143B: "Sami (Lule), Sweden",
	0x0C3B: "Sami (Northern), Finland",
	0x043B: "Sami (Northern), Norway",
	0x083B: "Sami (Northern), Sweden",
	0x203B: "Sami (Skolt), Finland",
	0x183B: "Sami (Southern), Norway",
	0x1C3B: "Sami (Southern), Sweden",
	0x044F: "Sanskrit, India",
	0x1C1A: "Serbian (Cyrillic), Bosnia and Herzegovina",
	0x0C1A: "Serbian (Cyrillic), Serbia",
	0x181A: "Serbian (Latin), Bosnia and Herzegovina",
	0x081A: "Serbian (Latin), Serbia",
	0x046C: "Sesotho sa Leboa, South Africa",
	0x0432: "Setswana, South Africa",
	0x045B: "Sinhala, Sri Lanka",
	0x041B: "Slovak, Slovakia",
	0x0424: "Slovenian, Slovenia",
	0x2C0A: "Spanish, Argentina",
	0x400A: "Spanish, Bolivia",
	0x340A: "Spanish, Chile",
	0x240A: "Spanish, Colombia",
	0x140A: "Spanish, Costa Rica",
	0x1C0A: "Spanish, Dominican Republic",
	0x300A: "Spanish, Ecuador",
	0x440A: "Spanish, El Salvador",
	0x100A: "Spanish, Guatemala",
	0x480A: "Spanish, Honduras",
	0x080A: "Spanish, Mexico",
	0x4C0A: "Spanish, Nicaragua",
	0x180A: "Spanish, Panama",
	0x3C0A: "Spanish, Paraguay",
	0x280A: "Spanish, Peru",
	0x500A: "Spanish, Puerto Rico",
	0x0C0A: "Spanish (Modern Sort), Spain",
	0x040A: "Spanish (Traditional Sort), Spain",
	0x540A: "Spanish, United States",
	0x380A: "Spanish, Uruguay",
	0x200A: "Spanish, Venezuela",
	0x081D: "Sweden, Finland",
	0x041D: "Swedish, Sweden",
	0x045A: "Syriac, Syria",
	0x0428: "Tajik (Cyrillic), Tajikistan",
	0x085F: "Tamazight (Latin), Algeria",
	0x0449: "Tamil, India",
	0x0444: "Tatar, Russia",
	0x044A: "Telugu, India",
	0x041E: "Thai, Thailand",
	0x0451: "Tibetan, PRC",
	0x041F: "Turkish, Turkey",
	0x0442: "Turkmen, Turkmenistan",
	0x0480: "Uighur, PRC",
	0x0422: "Ukrainian, Ukraine",
	0x042E: "Upper, Sorbian Germany",
	0x0420: "Urdu, Islamic Republic of Pakistan",
	0x0843: "Uzbek (Cyrillic), Uzbekistan",
	0x0443: "Uzbek (Latin), Uzbekistan",
	0x042A: "Vietnamese, Vietnam",
	0x0452: "Welsh, United Kingdom",
	0x0488: "Wolof, Senegal",
	0x0485: "Yakut, Russia",
	0x0478: "Yi, PRC",
	0x046A: "Yoruba, Nigeria",
}

func winLanguageName(id uint16) string {
	if name, ok := winLanguageNames[id]; ok {
		return name
	}
	return "Unknown"
}

// macLanguageNames maps Macintosh language identifiers to names; ids
// 95..127 are reserved.
var macLanguageNames = []string{
	"English", "French", "German", "Italian", "Dutch", "Swedish",
	"Spanish", "Danish", "Portuguese", "Norwegian", "Hebrew", "Japanese",
	"Arabic", "Finnish", "Greek", "Icelandic", "Maltese", "Turkish",
	"Croatian", "Chinese (Traditional)", "Urdu", "Hindi", "Thai",
	"Korean", "Lithuanian", "Polish", "Hungarian", "Estonian", "Latvian",
	"Sami", "Faroese", "Farsi/Persian", "Russian", "Chinese (Simplified)",
	"Flemish", "Irish Gaelic", "Albanian", "Romanian", "Czech", "Slovak",
	"Slovenian", "Yiddish", "Serbian", "Macedonian", "Bulgarian",
	"Ukrainian", "Byelorussian", "Uzbek", "Kazakh",
	"Azerbaijani (Cyrillic script)", "Azerbaijani (Arabic script)",
	"Armenian", "Georgian", "Moldavian", "Kirghiz", "Tajiki", "Turkmen",
	"Mongolian (Mongolian script)", "Mongolian (Cyrillic script)",
	"Pashto", "Kurdish", "Kashmiri", "Sindhi", "Tibetan", "Nepali",
	"Sanskrit", "Marathi", "Bengali", "Assamese", "Gujarati", "Punjabi",
	"Oriya", "Malayalam", "Kannada", "Tamil", "Telugu", "Sinhalese",
	"Burmese", "Khmer", "Lao", "Vietnamese", "Indonesian", "Tagalog",
	"Malay (Roman script)", "Malay (Arabic script)", "Amharic",
	"Tigrinya", "Galla", "Somali", "Swahili", "Kinyarwanda/Ruanda",
	"Rundi", "Nyanja/Chewa", "Malagasy", "Esperanto",
}

var macLanguageNamesHigh = []string{
	"Welsh", "Basque", "Catalan", "Latin", "Quechua", "Guarani",
	"Aymara", "Tatar", "Uighur", "Dzongkha", "Javanese (Roman script)",
	"Sundanese (Roman script)", "Galician", "Afrikaans", "Breton",
	"Inuktitut", "Scottish Gaelic", "Manx Gaelic",
	"Irish Gaelic (with dot above)", "Tongan", "Greek (polytonic)",
	"Greenlandic", "Azerbaijani (Roman script)",
}

func macLanguageName(id uint16) string {
	if int(id) < len(macLanguageNames) {
		return macLanguageNames[id]
	}
	if id >= 128 && int(id-128) < len(macLanguageNamesHigh) {
		return macLanguageNamesHigh[id-128]
	}
	return "Unknown"
}

func languageName(platform platformID, id uint16) string {
	switch uint16(platform) {
	case platformMacintosh:
		return macLanguageName(id)
	case platformWindows:
		return winLanguageName(id)
	default:
		return strconv.FormatUint(uint64(id), 10)
	}
}

// recordNames are the predefined name identifiers.
var recordNames = []string{
	"Copyright notice",
	"Family",
	"Subfamily",
	"Unique ID",
	"Full name",
	"Version",
	"PostScript",
	"Trademark",
	"Manufacturer",
	"Designer",
	"Description",
	"URL Vendor",
	"URL Designer",
	"License Description",
	"License Info URL",
	"Reserved",
	"Typographic Family",
	"Typographic Subfamily",
	"Compatible Full",
	"Sample text",
	"PostScript CID",
	"WWS Family",
	"WWS Subfamily",
	"Light Background Palette",
	"Dark Background Palette",
	"Variations PostScript Prefix",
}

func recordName(id uint16) string {
	if int(id) < len(recordNames) {
		return recordNames[id]
	}
	return "Unknown"
}

type nameRecord struct {
	platformID platformID
	encodingID uint16
	languageID uint16
	nameID     uint16
	offset     uint32
	length     uint32
}

func parseName(p *Parser) error {
	tableStart := p.offset()

	format, err := read[UInt16](p, "Format")
	if err != nil {
		return err
	}
	count, err := read[UInt16](p, "Number of records")
	if err != nil {
		return err
	}
	stringOffset, err := read[Offset16](p, "Offset to string storage")
	if err != nil {
		return err
	}

	var records []nameRecord
	err = p.readArray("Name Records", uint32(count), func(index uint32) error {
		p.beginGroup("")
		platform, err := read[platformID](p, "Platform ID")
		if err != nil {
			return err
		}
		encodingID, err := peek[UInt16](p)
		if err != nil {
			return err
		}
		if _, err := readRendered[UInt16](p, "Encoding ID",
			p.intern(encodingName(platform, uint16(encodingID)))); err != nil {
			return err
		}
		languageID, err := peek[UInt16](p)
		if err != nil {
			return err
		}
		if _, err := readRendered[UInt16](p, "Language ID",
			p.intern(languageName(platform, uint16(languageID)))); err != nil {
			return err
		}
		nameID, err := read[UInt16](p, "Name ID")
		if err != nil {
			return err
		}
		length, err := read[UInt16](p, "String length")
		if err != nil {
			return err
		}
		offset, err := read[Offset16](p, "String offset")
		if err != nil {
			return err
		}
		p.endGroupWith(p.indexLabel(index), "")

		// Zero-length records point at nothing.
		if length == 0 {
			return nil
		}
		records = append(records, nameRecord{
			platformID: platform,
			encodingID: uint16(encodingID),
			languageID: uint16(languageID),
			nameID:     uint16(nameID),
			offset:     uint32(offset),
			length:     uint32(length),
		})
		return nil
	})
	if err != nil {
		return err
	}

	if format == 1 {
		langTagCount, err := read[UInt16](p, "Number of language-tag records")
		if err != nil {
			return err
		}
		err = p.readArray("Language-tag Records", uint32(langTagCount), func(index uint32) error {
			p.beginGroupIndexed(index)
			if _, err := read[UInt16](p, "String length"); err != nil {
				return err
			}
			if _, err := read[Offset16](p, "String offset"); err != nil {
				return err
			}
			p.endGroup()
			return nil
		})
		if err != nil {
			return err
		}
	}

	records = prepareNameRecords(records)

	return p.readArray("Names", uint32(len(records)), func(index uint32) error {
		record := records[index]
		if err := p.advanceTo(tableStart + uint32(stringOffset) + record.offset); err != nil {
			return err
		}

		var title string
		if record.nameID < 26 {
			title = recordName(record.nameID)
		} else {
			title = "Record " + strconv.FormatUint(uint64(record.nameID), 10)
		}
		title = p.intern(title + " (" +
			encodingName(record.platformID, record.encodingID) + ", " +
			languageName(record.platformID, record.languageID) + ")")

		switch {
		case uint16(record.platformID) == platformUnicode ||
			(uint16(record.platformID) == platformWindows &&
				record.encodingID == windowsUnicodeBMPEncodingID):
			_, err := p.readUTF16String(title, record.length)
			return err
		case uint16(record.platformID) == platformMacintosh:
			_, err := p.readMacRomanString(title, record.length)
			return err
		default:
			return p.readUnsupported(record.length)
		}
	})
}

// prepareNameRecords sorts the surviving records by storage offset,
// drops duplicates and removes records whose storage range overlaps an
// earlier record.
func prepareNameRecords(records []nameRecord) []nameRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].offset < records[j].offset
	})
	out := records[:0]
	var maxEnd uint32
	for i, r := range records {
		if i > 0 {
			if r.offset == out[len(out)-1].offset {
				continue
			}
			if r.offset < maxEnd {
				continue
			}
		}
		out = append(out, r)
		if end := r.offset + r.length; end > maxEnd {
			maxEnd = end
		}
	}
	return out
}

// collectNames walks the name table with a read-only cursor and returns
// a nameId to string map restricted to English names, for leaf value
// rendering in fvar, STAT, feat and trak. Unicode-platform records carry
// no language and are always taken; Windows records count as English
// when their primary language is 0x09, Macintosh records when their
// language is 0.
func collectNames(s *shadowParser) map[uint16]string {
	names := map[uint16]string{}
	tableStart := s.offset()

	if _, err := sread[UInt16](s); err != nil { // format
		return names
	}
	count, err := sread[UInt16](s)
	if err != nil {
		return names
	}
	stringOffset, err := sread[Offset16](s)
	if err != nil {
		return names
	}

	var records []nameRecord
	for i := uint16(0); i < uint16(count); i++ {
		platform, err := sread[UInt16](s)
		if err != nil {
			return names
		}
		encodingID, err := sread[UInt16](s)
		if err != nil {
			return names
		}
		languageID, err := sread[UInt16](s)
		if err != nil {
			return names
		}
		nameID, err := sread[UInt16](s)
		if err != nil {
			return names
		}
		length, err := sread[UInt16](s)
		if err != nil {
			return names
		}
		offset, err := sread[Offset16](s)
		if err != nil {
			return names
		}
		if length == 0 {
			continue
		}
		records = append(records, nameRecord{
			platformID: platformID(platform),
			encodingID: uint16(encodingID),
			languageID: uint16(languageID),
			nameID:     uint16(nameID),
			offset:     uint32(offset),
			length:     uint32(length),
		})
	}

	for _, record := range records {
		if err := s.jumpTo(tableStart + uint32(stringOffset) + record.offset); err != nil {
			continue
		}
		switch {
		case uint16(record.platformID) == platformUnicode ||
			(uint16(record.platformID) == platformWindows &&
				record.encodingID == windowsUnicodeBMPEncodingID &&
				record.languageID&0x03FF == 0x09):
			if name, err := s.readUTF16String(record.length); err == nil {
				names[record.nameID] = name
			}
		case uint16(record.platformID) == platformMacintosh && record.languageID == 0:
			// English names only.
			if name, err := s.readMacRomanString(record.length); err == nil {
				names[record.nameID] = name
			}
		}
	}
	return names
}
