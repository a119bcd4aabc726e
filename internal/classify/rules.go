package classify

import (
	"regexp"

	"github.com/Dan-Lay/moni/internal/model"
)

// categoryRule maps a description pattern to a category key. Rules are
// evaluated in order against the upper-cased description and the first match
// wins, so specific merchant patterns must come before generic catch-alls.
type categoryRule struct {
	pattern  *regexp.Regexp
	category string
}

var categoryRules = []categoryRule{
	{regexp.MustCompile(`ASSAI|ATACAD|CARREFOUR|PAO DE ACUCAR|EXTRA HIPER|SUPERMERC|MERCADO MUNICIPAL|SONDA|DIA %|HORTIFRUTI`), model.CategorySupermercado},
	{regexp.MustCompile(`IFOOD|RAPPI|RESTAURANTE|PADARIA|LANCHONETE|PIZZARIA|PIZZA|BURGER|MCDONALD|BK |SUBWAY|CAFETERIA|CHURRASCARIA|SUSHI`), model.CategoryAlimentacao},
	{regexp.MustCompile(`UBER|99APP|99 TECNOLOGIA|CABIFY|POSTO|COMBUSTIVEL|IPIRANGA|SHELL|ESTACIONAMENTO|PEDAGIO|SEM PARAR|METRO|CPTM|BILHETE UNICO`), model.CategoryTransporte},
	{regexp.MustCompile(`AJUDA MAE|PIX MAE|TRANSF MAE`), model.CategoryAjudaMae},
	{regexp.MustCompile(`FARMACIA|DROGARIA|DROGASIL|PACHECO|HOSPITAL|CLINICA|LABORATORIO|EXAME|PLANO DE SAUDE|UNIMED|AMIL|ODONTO`), model.CategorySaude},
	{regexp.MustCompile(`CINEMA|CINEMARK|NETFLIX|SPOTIFY|PRIME VIDEO|DISNEY|HBO|INGRESSO|SHOW|TEATRO|HOTEL|AIRBNB|VIAGEM|PARQUE`), model.CategoryLazer},
	{regexp.MustCompile(`TESOURO|CDB |LCI |LCA |CORRETORA|XP INVEST|RICO|NUINVEST|B3 |APLICACAO|RESGATE RDB|FUNDO DE INVEST`), model.CategoryInvestimentos},
	{regexp.MustCompile(`ALUGUEL|CONDOMINIO|ENEL|ELETROPAULO|SABESP|COMGAS|VIVO|CLARO|TIM |OI |INTERNET|ENERGIA|CONTA DE AGUA|IPTU|SEGURO|MENSALIDADE`), model.CategoryFixas},
	{regexp.MustCompile(`AMAZON|SHOPEE|MERCADO LIVRE|MERCADOLIVRE|MAGAZINE|AMERICANAS|ALIEXPRESS|SHEIN|SHOPPING|LOJAS|LOJA|COMPRA`), model.CategoryCompras},
}

// bank name substrings checked in order; first match wins.
var sourcePatterns = []struct {
	name   string
	source model.Source
}{
	{"santander", model.SourceSantander},
	{"bradesco", model.SourceBradesco},
	{"nubank", model.SourceNubank},
}

// internationalRegex matches currency codes and foreign-merchant keywords.
// Brazilian ".com.br" domains are stripped from the text before matching so
// the ".COM" keyword does not flag them.
var internationalRegex = regexp.MustCompile(`USD|EUR|GBP|US\$|DOLAR|DOLLAR|INTERNACIONAL|INTL|EXTERIOR|COMPRA INTERNAC|\.COM\b`)

var comBrRegex = regexp.MustCompile(`(?i)\.com\.br`)

// establishmentPrefixRegex strips leading transaction-type prefixes from a
// statement description.
var establishmentPrefixRegex = regexp.MustCompile(`^(COMPRA|PGTO|PAG|DEB|TRANSF|PIX)\b[ .:-]*`)

var visaRegex = regexp.MustCompile(`\bVISA\b`)
