package consts

const (
	UA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/131.0.0.0 Safari/537.36"

	// XMLTV datetime layout, e.g. "20260219003000 +0330".
	TIME_FORMAT = "20060102150405 -0700"

	IRAN_TZ = "Asia/Tehran"

	SEPEHR_API_BASE = "https://sepehrapi.sepehrtv.ir/v3/epg/tvprogram"
	SEPEHR_ORIGIN   = "https://sepehrtv.ir"

	RADIO_QURAN_HTML_URL = "https://radioquran.ir/ChannelConductor/"
	RADIO_QURAN_JSON_URL = "https://radioquran.ir/jsonfeeders/epg/"
	RADIO_QURAN_SITE     = "https://radioquran.ir"

	OUTPUT_FILE   = "epg.xml"
	CHANNELS_FILE = "channels.yaml"

	GENERATOR_NAME = "EPG-IRIB"
	GENERATOR_URL  = "https://github.com/SaifAHussain/EPG-IRIB"
)
