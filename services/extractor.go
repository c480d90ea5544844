package services

import (
	"regexp"
	"strconv"
	"strings"

	"bike-deal-monitor/models"
	"bike-deal-monitor/utils"
)

var (
	// yearRegexp matches a plausible model year followed by a line break,
	// which is how car.gr renders the year inside a listing card.
	yearRegexp = regexp.MustCompile(`(19\d\d|20\d\d)\s*\n`)
	// priceRegexp captures a dot-grouped amount suffixed with the euro sign
	priceRegexp = regexp.MustCompile(`([\d.]+)\s*€`)
	// kmRegexp captures the odometer reading
	kmRegexp = regexp.MustCompile(`([\d.]+)\s*Km`)
	// ccRegexp captures the engine displacement
	ccRegexp = regexp.MustCompile(`([\d.]+)\s*cc`)
	// hpRegexp captures the engine power
	hpRegexp = regexp.MustCompile(`(\d+)\s*hp`)
	// noiseRegexp strips pagination counters and the promoted/damaged tags
	// car.gr injects into the title line.
	noiseRegexp = regexp.MustCompile(`(\d+ / \d+)|Προωθημένη|Με ζημιά`)
)

// Extractor turns raw listing text blocks into structured BikeRecords.
type Extractor struct {
	logger *utils.Logger
}

// NewExtractor creates an Extractor with the given logger.
func NewExtractor(logger *utils.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract parses one raw listing block. It returns nil when the block carries
// no usable signal (no resolvable title line or no price); every other field
// falls back to its zero sentinel rather than failing the whole record.
func (e *Extractor) Extract(rawText string) *models.BikeRecord {
	year, yearToken := e.parseYear(rawText)

	fullTitle := "Unknown"
	if year != 0 {
		lines := strings.Split(rawText, "\n")
		for i, line := range lines {
			if !strings.Contains(line, yearToken) {
				continue
			}
			if t := cleanTitleLine(line, yearToken); t != "" {
				fullTitle = t
				break
			}
			// The year sits on a line of its own; the title is the next
			// line that survives noise removal.
			for _, next := range lines[i+1:] {
				if t := cleanTitleLine(next, yearToken); t != "" {
					fullTitle = t
					break
				}
			}
			break
		}
	}

	price := e.parseGrouped(priceRegexp, rawText)
	if fullTitle == "Unknown" || price == 0 {
		e.logger.Debug("[extract] No usable data in block (%d bytes)", len(rawText))
		return nil
	}

	parts := strings.Fields(fullTitle)
	brand := parts[0]
	model := "Unknown"
	if len(parts) > 1 {
		model = strings.Join(parts[1:], " ")
	}

	return &models.BikeRecord{
		Year:       year,
		Kilometers: e.parseGrouped(kmRegexp, rawText),
		CC:         e.parseGrouped(ccRegexp, rawText),
		HP:         e.parsePlain(hpRegexp, rawText),
		Brand:      brand,
		Model:      model,
		Price:      price,
	}
}

// parseYear returns the first plausible year token, or 0 when none is found.
func (e *Extractor) parseYear(rawText string) (int, string) {
	match := yearRegexp.FindStringSubmatch(rawText)
	if len(match) < 2 {
		return 0, ""
	}
	year, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, ""
	}
	return year, match[1]
}

// parseGrouped extracts a dot-grouped integer ("15.000" → 15000).
func (e *Extractor) parseGrouped(re *regexp.Regexp, rawText string) int {
	match := re.FindStringSubmatch(rawText)
	if len(match) < 2 {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(match[1], ".", ""))
	if err != nil {
		return 0
	}
	return n
}

func (e *Extractor) parsePlain(re *regexp.Regexp, rawText string) int {
	match := re.FindStringSubmatch(rawText)
	if len(match) < 2 {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

// cleanTitleLine strips the noise markers and the year digits from a
// candidate title line and collapses the remaining whitespace.
func cleanTitleLine(line, yearToken string) string {
	clean := noiseRegexp.ReplaceAllString(line, "")
	clean = strings.ReplaceAll(clean, yearToken, "")
	return normaliseText(clean)
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
