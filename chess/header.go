package chess

// Header is a PGN tag name. Only the tags the statistics code consults are
// named here; arbitrary tags can still be stored and retrieved.
type Header string

const (
	HeaderEvent    Header = "Event"
	HeaderSite     Header = "Site"
	HeaderDate     Header = "Date"
	HeaderRound    Header = "Round"
	HeaderWhite    Header = "White"
	HeaderBlack    Header = "Black"
	HeaderResult   Header = "Result"
	HeaderWhiteElo Header = "WhiteElo"
	HeaderBlackElo Header = "BlackElo"
	HeaderVariant  Header = "Variant"
)
